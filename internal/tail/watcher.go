package tail

import (
	"context"
	"sync"
	"time"

	"github.com/tessro/tunewave/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackFinished
	EventPause
	EventResume
	EventAdvance
	EventPlaylistEnd
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Status
	Current   *core.Status
	// Move is set for EventAdvance and EventPlaylistEnd.
	Move *core.Move
}

// StatusSource returns the current status. *client.Client implements it.
type StatusSource interface {
	Status(ctx context.Context) (*core.Status, error)
}

// Watcher polls a status source and emits events.
type Watcher struct {
	source   StatusSource
	advancer *Advancer
	interval time.Duration
	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
	onError  func(error)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithAdvancer makes the watcher drive auto-advance on every poll.
func WithAdvancer(a *Advancer) WatcherOption {
	return func(w *Watcher) {
		w.advancer = a
	}
}

// WithErrorHandler receives poll and advance errors, which are otherwise
// dropped.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a new status watcher.
func NewWatcher(source StatusSource, interval time.Duration, opts ...WatcherOption) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	w := &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.Status
	prev = w.poll(ctx, prev)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			prev = w.poll(ctx, prev)
		}
	}
}

// poll returns the status to diff against next time.
func (w *Watcher) poll(ctx context.Context, prev *core.Status) *core.Status {
	curr, err := w.source.Status(ctx)
	if err != nil {
		w.reportError(err)
		return prev
	}

	events := diffStatus(prev, curr)

	if w.advancer != nil {
		move, err := w.advancer.Observe(ctx, curr)
		if err != nil {
			w.reportError(err)
		} else if move != nil {
			e := Event{Type: EventAdvance, Timestamp: time.Now(), Previous: prev, Current: curr, Move: move}
			if !move.Moved {
				e.Type = EventPlaylistEnd
			}
			events = append(events, e)
		}
	}

	for _, e := range events {
		select {
		case w.events <- e:
		default:
			// Drop event if channel is full
		}
	}
	return curr
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

// diffStatus compares two status documents and returns detected events.
func diffStatus(prev, curr *core.Status) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event

	// First poll - no previous status
	if prev == nil {
		if curr.HasTrack() {
			events = append(events, Event{
				Type:      EventTrackChange,
				Timestamp: now,
				Current:   curr,
			})
		}
		return events
	}

	if prev.Meta.ID != curr.Meta.ID && curr.HasTrack() {
		events = append(events, Event{
			Type:      EventTrackChange,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	// Idle edge on the same track: it played out.
	if !prev.Idle && curr.Idle && curr.HasTrack() && prev.Meta.ID == curr.Meta.ID {
		events = append(events, Event{
			Type:      EventTrackFinished,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if !prev.Paused && curr.Paused {
		events = append(events, Event{
			Type:      EventPause,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	} else if prev.Paused && !curr.Paused {
		events = append(events, Event{
			Type:      EventResume,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	return events
}
