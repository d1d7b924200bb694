package tail

import (
	"context"
	"sync"
	"time"

	"github.com/tessro/tunewave/internal/core"
)

// DefaultLoadingWindow bounds how long auto-advance stays suppressed after
// a load when the renderer never reports a position.
const DefaultLoadingWindow = 15 * time.Second

// Navigator advances the playlist. *client.Client implements it.
type Navigator interface {
	Next(ctx context.Context) (*core.Move, error)
}

// Advancer decides when a polling client should skip to the next track.
//
// mpv reports idle while a freshly loaded track is still buffering, so
// every load opens a loading window during which idle is ignored. The
// window closes on the first status with a position above zero, or after
// the window duration. Outside the window, an idle, unpaused renderer with
// a known track triggers Next. When Next reports the end of the playlist,
// the advancer stays quiet until the now-playing track changes.
type Advancer struct {
	nav    Navigator
	window time.Duration
	now    func() time.Time

	mu           sync.Mutex
	loading      bool
	loadingSince time.Time
	lastID       string
	seen         bool
	exhausted    string
}

// NewAdvancer creates an advancer that calls nav.Next.
func NewAdvancer(nav Navigator, window time.Duration) *Advancer {
	if window <= 0 {
		window = DefaultLoadingWindow
	}
	return &Advancer{
		nav:    nav,
		window: window,
		now:    time.Now,
	}
}

// MarkLoading opens the loading window. Call it after every play, next or
// prev the client issues itself.
func (a *Advancer) MarkLoading() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.markLoading()
}

func (a *Advancer) markLoading() {
	a.loading = true
	a.loadingSince = a.now()
	a.exhausted = ""
}

// Loading reports whether auto-advance is currently suppressed.
func (a *Advancer) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Observe feeds one status document to the advancer. It returns the move
// when it called Next, and nil otherwise.
func (a *Advancer) Observe(ctx context.Context, s *core.Status) (*core.Move, error) {
	if s == nil {
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// A load issued by another client shows up as a new track.
	if s.Meta.ID != a.lastID {
		if a.seen {
			a.markLoading()
		}
		a.lastID = s.Meta.ID
	}
	a.seen = true

	if a.loading && (s.Time > 0 || a.now().Sub(a.loadingSince) >= a.window) {
		a.loading = false
	}

	if !s.Idle || a.loading || s.Paused || s.Meta.ID == "" || s.Meta.ID == a.exhausted {
		return nil, nil
	}

	move, err := a.nav.Next(ctx)
	if err != nil {
		return nil, err
	}
	if move.Moved {
		a.markLoading()
		if move.Track != nil {
			a.lastID = move.Track.ID
		}
	} else {
		a.exhausted = s.Meta.ID
	}
	return move, nil
}
