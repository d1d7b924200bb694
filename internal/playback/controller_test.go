package playback

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

func newTestController(r Renderer) *Controller {
	return NewController(r, core.DefaultURLTemplate, zerolog.Nop())
}

// withCursor returns a controller positioned on playlist[i] without
// issuing any commands.
func withCursor(r Renderer, playlist []core.Track, i int) *Controller {
	c := newTestController(r)
	c.ReplacePlaylist(playlist)
	c.state.Cursor = i
	if i >= 0 {
		c.state.NowPlaying = playlist[i]
	}
	return c
}

func TestNewControllerState(t *testing.T) {
	snap := newTestController(newFakeRenderer()).Snapshot()
	if snap.Cursor != core.NoCursor {
		t.Errorf("Cursor = %d, want %d", snap.Cursor, core.NoCursor)
	}
	if snap.NowPlaying != core.NothingPlaying {
		t.Errorf("NowPlaying = %+v, want placeholder", snap.NowPlaying)
	}
	if snap.NowPlaying.Title != "Not Playing" {
		t.Errorf("placeholder title = %q", snap.NowPlaying.Title)
	}
}

func TestReplacePlaylistRoundTrip(t *testing.T) {
	c := newTestController(newFakeRenderer())
	in := tracks("a", "b", "c")
	c.ReplacePlaylist(in)

	got := c.Snapshot().Tracks
	if !reflect.DeepEqual(got, in) {
		t.Errorf("Tracks = %v, want %v", got, in)
	}

	// The controller keeps its own copy.
	in[0].Title = "changed"
	if c.Snapshot().Tracks[0].Title == "changed" {
		t.Error("ReplacePlaylist should copy its input")
	}
}

func TestReplacePlaylistKeepsCursorAndNowPlaying(t *testing.T) {
	r := newFakeRenderer()
	c := withCursor(r, tracks("a", "b", "c"), 2)
	c.ReplacePlaylist(tracks("x"))

	snap := c.Snapshot()
	if snap.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", snap.Cursor)
	}
	if snap.NowPlaying.ID != "c" {
		t.Errorf("NowPlaying = %q, want c", snap.NowPlaying.ID)
	}
	if r.count() != 0 {
		t.Errorf("ReplacePlaylist issued %d commands", r.count())
	}
}

func TestNextAdvances(t *testing.T) {
	playlists := [][]core.Track{
		tracks("a", "b"),
		tracks("a", "b", "c", "d"),
		tracks("a", "a", "b"),
	}

	for _, p := range playlists {
		for i := 0; i < len(p)-1; i++ {
			r := newFakeRenderer()
			c := withCursor(r, p, i)

			move := c.Next(context.Background())
			snap := c.Snapshot()

			if !move.Moved || !move.Delivered {
				t.Errorf("len %d, i %d: move = %+v", len(p), i, move)
			}
			if snap.Cursor != i+1 {
				t.Errorf("len %d, i %d: Cursor = %d, want %d", len(p), i, snap.Cursor, i+1)
			}
			if snap.NowPlaying != p[i+1] {
				t.Errorf("len %d, i %d: NowPlaying = %+v, want %+v", len(p), i, snap.NowPlaying, p[i+1])
			}
			if loads := r.loads(); len(loads) != 1 || loads[0] != url(p[i+1].ID) {
				t.Errorf("len %d, i %d: loads = %v", len(p), i, loads)
			}
		}
	}
}

func TestNavigationBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		list   []core.Track
		cursor int
		next   bool
	}{
		{"next at end", tracks("a", "b", "c"), 2, true},
		{"next single", tracks("a"), 0, true},
		{"next without cursor", tracks("a", "b"), core.NoCursor, true},
		{"next on empty", nil, core.NoCursor, true},
		{"prev at start", tracks("a", "b", "c"), 0, false},
		{"prev without cursor", tracks("a", "b"), core.NoCursor, false},
		{"prev on empty", nil, core.NoCursor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRenderer()
			c := withCursor(r, tt.list, tt.cursor)
			before := c.Snapshot()

			var move core.Move
			if tt.next {
				move = c.Next(context.Background())
			} else {
				move = c.Prev(context.Background())
			}

			if move.Moved {
				t.Errorf("Moved = true, want false")
			}
			if got := c.Snapshot(); !reflect.DeepEqual(got, before) {
				t.Errorf("state changed: %+v -> %+v", before, got)
			}
			if r.count() != 0 {
				t.Errorf("issued %d commands, want 0", r.count())
			}
		})
	}
}

func TestStaleCursorIsClamped(t *testing.T) {
	t.Run("next", func(t *testing.T) {
		r := newFakeRenderer()
		c := withCursor(r, tracks("a", "b", "c", "d", "e"), 4)
		c.ReplacePlaylist(tracks("x", "y"))

		move := c.Next(context.Background())
		if move.Moved {
			t.Errorf("Next moved past a clamped cursor: %+v", move)
		}
		if c.Snapshot().Cursor != 1 {
			t.Errorf("Cursor = %d, want 1", c.Snapshot().Cursor)
		}
	})

	t.Run("prev", func(t *testing.T) {
		r := newFakeRenderer()
		c := withCursor(r, tracks("a", "b", "c", "d", "e"), 4)
		c.ReplacePlaylist(tracks("x", "y", "z"))

		move := c.Prev(context.Background())
		if !move.Moved || move.Cursor != 1 || move.Track.ID != "y" {
			t.Errorf("Prev = %+v, want move to y", move)
		}
		if loads := r.loads(); len(loads) != 1 || loads[0] != url("y") {
			t.Errorf("loads = %v", loads)
		}
	})

	t.Run("empty", func(t *testing.T) {
		r := newFakeRenderer()
		c := withCursor(r, tracks("a", "b"), 1)
		c.ReplacePlaylist(nil)

		if c.Next(context.Background()).Moved || c.Prev(context.Background()).Moved {
			t.Error("navigation on an empty playlist should be a no-op")
		}
		if r.count() != 0 {
			t.Errorf("issued %d commands, want 0", r.count())
		}
		if c.Snapshot().NowPlaying.ID != "b" {
			t.Error("NowPlaying should survive an empty replacement")
		}
	})
}

func TestPlay(t *testing.T) {
	t.Run("id in playlist", func(t *testing.T) {
		for _, start := range []int{core.NoCursor, 0, 2} {
			r := newFakeRenderer()
			list := tracks("a", "b", "c")
			c := withCursor(r, list, start)

			move, err := c.Play(context.Background(), "b")
			if err != nil {
				t.Fatalf("Play() error = %v", err)
			}
			snap := c.Snapshot()
			if snap.Cursor != 1 || snap.NowPlaying != list[1] {
				t.Errorf("start %d: snapshot = %+v", start, snap)
			}
			if !move.Moved || !move.Delivered {
				t.Errorf("start %d: move = %+v", start, move)
			}
			if loads := r.loads(); len(loads) != 1 || loads[0] != url("b") {
				t.Errorf("start %d: loads = %v", start, loads)
			}
		}
	})

	t.Run("id not in playlist", func(t *testing.T) {
		r := newFakeRenderer()
		c := withCursor(r, tracks("a", "b", "c"), 0)
		before := c.Snapshot()

		move, err := c.Play(context.Background(), "zzz")
		if err != nil {
			t.Fatalf("Play() error = %v", err)
		}
		if move.Moved {
			t.Errorf("Moved = true for an unknown id")
		}
		if got := c.Snapshot(); got.Cursor != before.Cursor || got.NowPlaying != before.NowPlaying {
			t.Errorf("state changed: %+v -> %+v", before, got)
		}
		if loads := r.loads(); len(loads) != 1 || loads[0] != url("zzz") {
			t.Errorf("loads = %v", loads)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		r := newFakeRenderer()
		c := newTestController(r)
		if _, err := c.Play(context.Background(), ""); !errors.Is(err, twerrors.ErrEmptyID) {
			t.Errorf("Play(\"\") error = %v, want ErrEmptyID", err)
		}
		if r.count() != 0 {
			t.Error("empty id reached the renderer")
		}
	})

	t.Run("custom url template", func(t *testing.T) {
		r := newFakeRenderer()
		c := NewController(r, "ytdl://%s", zerolog.Nop())
		if _, err := c.Play(context.Background(), "abc"); err != nil {
			t.Fatal(err)
		}
		if loads := r.loads(); len(loads) != 1 || loads[0] != "ytdl://abc" {
			t.Errorf("loads = %v", loads)
		}
	})
}

func TestNavigationScenario(t *testing.T) {
	r := newFakeRenderer()
	list := tracks("A", "B", "C")
	c := withCursor(r, list, 1)
	ctx := context.Background()

	c.Next(ctx)
	if snap := c.Snapshot(); snap.Cursor != 2 || snap.NowPlaying.ID != "C" {
		t.Fatalf("after next: %+v", snap)
	}

	if move := c.Next(ctx); move.Moved {
		t.Fatalf("second next moved: %+v", move)
	}
	if c.Snapshot().Cursor != 2 {
		t.Fatalf("second next changed the cursor")
	}

	c.Prev(ctx)
	if snap := c.Snapshot(); snap.Cursor != 1 || snap.NowPlaying.ID != "B" {
		t.Fatalf("after first prev: %+v", snap)
	}
	c.Prev(ctx)
	if snap := c.Snapshot(); snap.Cursor != 0 || snap.NowPlaying.ID != "A" {
		t.Fatalf("after second prev: %+v", snap)
	}

	want := []string{url("C"), url("B"), url("A")}
	if got := r.loads(); !reflect.DeepEqual(got, want) {
		t.Errorf("loads = %v, want %v", got, want)
	}
}

func TestNavigationWithRendererDown(t *testing.T) {
	r := newFakeRenderer()
	r.down = true
	c := withCursor(r, tracks("a", "b"), 0)

	move := c.Next(context.Background())
	if !move.Moved || move.Delivered {
		t.Errorf("move = %+v, want moved but not delivered", move)
	}
	if c.Snapshot().NowPlaying.ID != "b" {
		t.Error("state should still advance when the load is lost")
	}
	if c.TogglePause(context.Background()) {
		t.Error("TogglePause reported delivery with the renderer down")
	}
}

func TestConcurrentNextDoesNotLoseMoves(t *testing.T) {
	r := newFakeRenderer()
	list := tracks("0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	c := withCursor(r, list, 0)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Next(context.Background())
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Cursor; got != 5 {
		t.Errorf("Cursor = %d, want 5", got)
	}
	want := []string{url("1"), url("2"), url("3"), url("4"), url("5")}
	if got := r.loads(); !reflect.DeepEqual(got, want) {
		t.Errorf("loads = %v, want %v", got, want)
	}
}

func TestSeek(t *testing.T) {
	tests := []struct {
		name    string
		pos     float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"middle", 93.5, false},
		{"past end", 1e6, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRenderer()
			c := newTestController(r)

			delivered, err := c.Seek(context.Background(), tt.pos)
			if tt.wantErr {
				if !errors.Is(err, twerrors.ErrInvalidPosition) {
					t.Errorf("Seek(%v) error = %v, want ErrInvalidPosition", tt.pos, err)
				}
				if r.count() != 0 {
					t.Error("invalid position reached the renderer")
				}
				return
			}
			if err != nil || !delivered {
				t.Fatalf("Seek(%v) = %v, %v", tt.pos, delivered, err)
			}
			cmd := r.commands[0]
			if cmd.Name != "set_property" || cmd.Args[0] != "time-pos" || cmd.Args[1] != tt.pos {
				t.Errorf("command = %v", cmd)
			}
		})
	}
}

func TestTogglePause(t *testing.T) {
	r := newFakeRenderer()
	c := newTestController(r)
	if !c.TogglePause(context.Background()) {
		t.Fatal("TogglePause() = false")
	}
	if cmd := r.commands[0]; cmd.String() != "cycle pause" {
		t.Errorf("command = %q", cmd.String())
	}
}
