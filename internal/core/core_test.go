package core

import (
	"testing"
	"time"
)

func TestPlaylistHelpers(t *testing.T) {
	p := &Playlist{
		Tracks: []Track{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Cursor: 1,
	}

	if got := p.Current(); got == nil || got.ID != "b" {
		t.Errorf("Current() = %v, want b", got)
	}
	p.Cursor = NoCursor
	if p.Current() != nil {
		t.Error("no cursor should give no current track")
	}

	var nilList *Playlist
	if nilList.Len() != 0 || !nilList.IsEmpty() || nilList.Current() != nil {
		t.Error("nil playlist should behave as empty")
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"", "https://www.youtube.com/watch?v=abc"},
		{"https://youtu.be/%s", "https://youtu.be/abc"},
	}
	for _, tt := range tests {
		if got := URL(tt.template, "abc"); got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
	if got := ThumbnailURL("abc"); got != "https://img.youtube.com/vi/abc/mqdefault.jpg" {
		t.Errorf("ThumbnailURL = %q", got)
	}
}

func TestNothingPlaying(t *testing.T) {
	if !NothingPlaying.IsPlaceholder() {
		t.Error("NothingPlaying should be a placeholder")
	}
	if (Track{ID: "x"}).IsPlaceholder() {
		t.Error("a track with an id is not a placeholder")
	}
}

func TestStatusProgress(t *testing.T) {
	tests := []struct {
		name string
		s    *Status
		want float64
	}{
		{"nil", nil, 0},
		{"no duration", &Status{Time: 10}, 0},
		{"half", &Status{Time: 60, Duration: 120}, 50},
		{"overrun", &Status{Time: 130, Duration: 120}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.want)
			}
		})
	}

	s := &Status{Time: 90.5, Duration: 200}
	if s.Position() != 90500*time.Millisecond || s.Length() != 200*time.Second {
		t.Errorf("Position/Length = %v/%v", s.Position(), s.Length())
	}
}
