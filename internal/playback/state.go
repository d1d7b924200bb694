// Package playback owns the playlist, cursor and now-playing track, and
// turns navigation into mpv commands.
package playback

import (
	"slices"

	"github.com/tessro/tunewave/internal/core"
)

// State is the service's playback state. It is only touched by a
// Controller, under the controller's lock.
type State struct {
	Playlist   []core.Track
	Cursor     int
	NowPlaying core.Track
}

// NewState returns the state the service starts with.
func NewState() State {
	return State{
		Cursor:     core.NoCursor,
		NowPlaying: core.NothingPlaying,
	}
}

// clamp pulls a cursor left stale by a shorter playlist back onto its last
// track. On an empty playlist the cursor becomes NoCursor.
func (s *State) clamp() {
	if s.Cursor >= len(s.Playlist) {
		s.Cursor = len(s.Playlist) - 1
	}
}

func (s *State) view() core.Playlist {
	return core.Playlist{
		Tracks:     slices.Clone(s.Playlist),
		Cursor:     s.Cursor,
		NowPlaying: s.NowPlaying,
	}
}
