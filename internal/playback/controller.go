package playback

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
	"github.com/tessro/tunewave/internal/mpv"
)

// Renderer sends one IPC command. *mpv.Client implements it.
type Renderer interface {
	Send(ctx context.Context, cmd mpv.Command) mpv.Reply
}

// Controller serialises every change to State. The lock is held across the
// renderer call of a navigation so loads reach mpv in cursor order.
type Controller struct {
	mu          sync.Mutex
	state       State
	renderer    Renderer
	urlTemplate string
	log         zerolog.Logger
}

// NewController creates a controller with an empty playlist.
func NewController(renderer Renderer, urlTemplate string, log zerolog.Logger) *Controller {
	return &Controller{
		state:       NewState(),
		renderer:    renderer,
		urlTemplate: urlTemplate,
		log:         log,
	}
}

// ReplacePlaylist swaps in tracks. The cursor and now-playing track are
// left alone.
func (c *Controller) ReplacePlaylist(tracks []core.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Playlist = slices.Clone(tracks)
}

// Play loads id. If the playlist holds id the cursor and now-playing track
// follow it; otherwise only the load is issued.
func (c *Controller) Play(ctx context.Context, id string) (core.Move, error) {
	if id == "" {
		return core.Move{}, twerrors.ErrEmptyID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	move := core.Move{Cursor: c.state.Cursor}
	for i, t := range c.state.Playlist {
		if t.ID == id {
			c.state.Cursor = i
			c.state.NowPlaying = t
			move.Moved = true
			move.Cursor = i
			break
		}
	}

	if move.Moved {
		track := c.state.NowPlaying
		move.Track = &track
	} else {
		move.Track = &core.Track{ID: id}
	}
	move.Delivered = c.load(ctx, id)
	return move, nil
}

// Next advances one track. At the end of the playlist, or with no cursor,
// it does nothing.
func (c *Controller) Next(ctx context.Context) core.Move {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.clamp()
	if c.state.Cursor == core.NoCursor || c.state.Cursor >= len(c.state.Playlist)-1 {
		return core.Move{Cursor: c.state.Cursor}
	}
	return c.moveTo(ctx, c.state.Cursor+1)
}

// Prev steps back one track. At the start of the playlist it does nothing.
func (c *Controller) Prev(ctx context.Context) core.Move {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.clamp()
	if c.state.Cursor <= 0 {
		return core.Move{Cursor: c.state.Cursor}
	}
	return c.moveTo(ctx, c.state.Cursor-1)
}

// moveTo must be called with c.mu held.
func (c *Controller) moveTo(ctx context.Context, i int) core.Move {
	c.state.Cursor = i
	c.state.NowPlaying = c.state.Playlist[i]
	track := c.state.NowPlaying
	return core.Move{
		Moved:     true,
		Cursor:    i,
		Track:     &track,
		Delivered: c.load(ctx, track.ID),
	}
}

// load must be called with c.mu held.
func (c *Controller) load(ctx context.Context, id string) bool {
	url := core.URL(c.urlTemplate, id)
	reply := c.renderer.Send(ctx, mpv.LoadFile(url))
	if err := reply.Err(); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("load not delivered")
		return false
	}
	c.log.Info().Str("id", id).Str("url", url).Msg("track loaded")
	return true
}

// TogglePause flips mpv's pause flag. The new state is not read back.
func (c *Controller) TogglePause(ctx context.Context) bool {
	reply := c.renderer.Send(ctx, mpv.Cycle(mpv.PropPause))
	if err := reply.Err(); err != nil {
		c.log.Warn().Err(err).Msg("pause toggle not delivered")
		return false
	}
	return true
}

// Seek moves playback to seconds. Positions past the end are left for mpv
// to handle.
func (c *Controller) Seek(ctx context.Context, seconds float64) (bool, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return false, fmt.Errorf("%w: %v", twerrors.ErrInvalidPosition, seconds)
	}

	reply := c.renderer.Send(ctx, mpv.SetProperty(mpv.PropTimePos, seconds))
	if err := reply.Err(); err != nil {
		c.log.Warn().Err(err).Float64("pos", seconds).Msg("seek not delivered")
		return false, nil
	}
	return true, nil
}

// Snapshot returns a copy of the playlist, cursor and now-playing track.
func (c *Controller) Snapshot() core.Playlist {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.view()
}

// NowPlaying returns the track most recently sent to mpv.
func (c *Controller) NowPlaying() core.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.NowPlaying
}
