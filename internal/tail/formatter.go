package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/tunewave/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is
// ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      EventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	track := eventTrack(e)
	if track != nil {
		data.ID = track.ID
		data.Title = track.Title
		data.Uploader = track.Uploader
		data.URL = core.URL("", track.ID)
	}
	if e.Current != nil {
		data.Position = e.Current.Time
		data.Duration = e.Current.Duration
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	ID        string
	Title     string
	Uploader  string
	URL       string
	Position  float64
	Duration  float64
}

// eventTrack picks the track an event is about.
func eventTrack(e Event) *core.Track {
	if e.Move != nil && e.Move.Track != nil {
		return e.Move.Track
	}
	if e.Current != nil && e.Current.HasTrack() {
		return &e.Current.Meta
	}
	return nil
}

func describe(t *core.Track) string {
	if t.Uploader == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.Uploader, t.Title)
}

func eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current != nil && e.Current.HasTrack() {
			return "Now playing: " + describe(&e.Current.Meta)
		}
		return "Track changed"

	case EventTrackFinished:
		if e.Current != nil && e.Current.HasTrack() {
			return "Finished: " + describe(&e.Current.Meta)
		}
		return "Track finished"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventAdvance:
		if e.Move != nil && e.Move.Track != nil {
			return "Auto-advanced to: " + describe(e.Move.Track)
		}
		return "Auto-advanced"

	case EventPlaylistEnd:
		return "End of playlist"

	default:
		return "Unknown event"
	}
}

func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackFinished:
		return "✅"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventAdvance:
		return "⏭️"
	case EventPlaylistEnd:
		return "⏹️"
	default:
		return "❓"
	}
}

// EventTypeName returns the name of the event type.
func EventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackFinished:
		return "track_finished"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventAdvance:
		return "advance"
	case EventPlaylistEnd:
		return "playlist_end"
	default:
		return "unknown"
	}
}
