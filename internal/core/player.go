package core

import (
	"context"
	"time"
)

// Player defines the interface for playback control.
type Player interface {
	// Playback control
	Play(ctx context.Context, id string) error
	TogglePause(ctx context.Context) error
	Next(ctx context.Context) (*Move, error)
	Prev(ctx context.Context) (*Move, error)
	Seek(ctx context.Context, seconds float64) error

	// State queries
	Status(ctx context.Context) (*Status, error)
	Playlist(ctx context.Context) (*Playlist, error)

	// Catalog
	Trending(ctx context.Context) ([]Track, error)
	Search(ctx context.Context, query string) ([]Track, error)
}

// HistoryEntry is a track that started playing during this session.
type HistoryEntry struct {
	Track    Track
	PlayedAt time.Time
}
