package core

// NoCursor marks a playlist with no selected position.
const NoCursor = -1

// Playlist is a point-in-time view of the service's playlist.
type Playlist struct {
	Tracks     []Track `json:"tracks"`
	Cursor     int     `json:"cursor"`
	NowPlaying Track   `json:"now_playing"`
}

// Current returns the track under the cursor, or nil if the cursor is
// unset or out of range.
func (p *Playlist) Current() *Track {
	if p == nil || p.Cursor < 0 || p.Cursor >= len(p.Tracks) {
		return nil
	}
	return &p.Tracks[p.Cursor]
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}

// Move describes the outcome of a navigation call.
type Move struct {
	// Moved is false when the cursor was already at a boundary.
	Moved  bool   `json:"moved"`
	Cursor int    `json:"cursor"`
	Track  *Track `json:"track,omitempty"`
	// Delivered reports whether the renderer acknowledged the load.
	Delivered bool `json:"delivered"`
}
