package playback

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/mpv"
)

// Reporter builds status documents from live mpv properties and the
// controller's now-playing track.
type Reporter struct {
	renderer Renderer
	ctrl     *Controller
	log      zerolog.Logger
}

// NewReporter creates a reporter.
func NewReporter(renderer Renderer, ctrl *Controller, log zerolog.Logger) *Reporter {
	return &Reporter{renderer: renderer, ctrl: ctrl, log: log}
}

// Status never fails. Each property that cannot be read falls back to its
// zero value without affecting the others.
func (r *Reporter) Status(ctx context.Context) core.Status {
	var (
		wg     sync.WaitGroup
		status core.Status
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		status.Time = r.float(ctx, mpv.PropTimePos)
	}()
	go func() {
		defer wg.Done()
		status.Duration = r.float(ctx, mpv.PropDuration)
	}()
	go func() {
		defer wg.Done()
		status.Paused = r.bool(ctx, mpv.PropPause)
	}()
	go func() {
		defer wg.Done()
		status.Idle = r.bool(ctx, mpv.PropIdleActive)
	}()
	wg.Wait()

	status.Meta = r.ctrl.NowPlaying()
	return status
}

func (r *Reporter) float(ctx context.Context, prop string) float64 {
	f, err := r.renderer.Send(ctx, mpv.GetProperty(prop)).Float()
	if err != nil {
		r.log.Debug().Err(err).Str("property", prop).Msg("status property unavailable")
		return 0
	}
	return f
}

func (r *Reporter) bool(ctx context.Context, prop string) bool {
	b, err := r.renderer.Send(ctx, mpv.GetProperty(prop)).Bool()
	if err != nil {
		r.log.Debug().Err(err).Str("property", prop).Msg("status property unavailable")
		return false
	}
	return b
}
