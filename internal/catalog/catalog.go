// Package catalog finds tracks: a curated trending list, YouTube search
// through yt-dlp, and an optional Redis cache in front of search.
package catalog

import (
	"context"
	"strings"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/errors"
)

// DefaultLimit is the number of results requested when none is given.
const DefaultLimit = 25

// MaxLimit caps a single search.
const MaxLimit = 50

// Result is a search result that may carry errors alongside tracks.
type Result = errors.PartialResult[[]core.Track]

// Catalog searches for tracks.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) *Result
}

// Classify reports whether r is complete, partial or failed.
func Classify(r *Result) errors.Outcome {
	return r.Classify(func(tracks []core.Track) bool {
		return len(tracks) == 0
	})
}

// NormalizeQuery trims surrounding whitespace and collapses inner runs.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
