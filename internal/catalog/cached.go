package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

const keyPrefix = "tunewave:search:"

// Cached serves repeated searches from Redis. Only complete, non-empty
// results are stored.
type Cached struct {
	next Catalog
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewRedis connects to the Redis server at url, e.g. redis://localhost:6379/0.
func NewRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewCached wraps next with a Redis cache.
func NewCached(next Catalog, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Cached {
	now := time.Now()
	log.Info().Str("ttl", strings.TrimSpace(humanize.RelTime(now, now.Add(ttl), "", ""))).Msg("search cache enabled")
	return &Cached{next: next, rdb: rdb, ttl: ttl, log: log}
}

type cacheKey struct {
	Query string
	Limit int
}

// Key returns the Redis key for a search.
func Key(query string, limit int) (string, error) {
	h, err := hashstructure.Hash(cacheKey{
		Query: strings.ToLower(NormalizeQuery(query)),
		Limit: clampLimit(limit),
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", keyPrefix, h), nil
}

// Search returns a cached result when one exists, otherwise it asks the
// wrapped catalog. Cache failures fall through to the wrapped catalog.
func (c *Cached) Search(ctx context.Context, query string, limit int) *Result {
	if NormalizeQuery(query) == "" {
		return &Result{Data: []core.Track{}}
	}

	key, err := Key(query, limit)
	if err != nil {
		c.log.Warn().Err(err).Msg("hash search key")
		return c.next.Search(ctx, query, limit)
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var tracks []core.Track
		if err := json.Unmarshal(data, &tracks); err == nil {
			c.log.Debug().Str("query", query).Int("results", len(tracks)).Msg("search cache hit")
			return &Result{Data: tracks}
		}
		c.log.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("search cache read failed")
	}

	result := c.next.Search(ctx, query, limit)
	if Classify(result) != twerrors.Complete || len(result.Data) == 0 {
		return result
	}

	data, err = json.Marshal(result.Data)
	if err != nil {
		return result
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("search cache write failed")
	}
	return result
}
