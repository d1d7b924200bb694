package tail

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/tunewave/internal/core"
)

func TestFormatLine(t *testing.T) {
	curr := &core.Status{Meta: core.Track{ID: "V7LwfY5U5WI", Title: "Kesariya", Uploader: "Arijit Singh"}}
	ts := time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC)

	tests := []struct {
		name string
		f    *Formatter
		e    Event
		want string
	}{
		{
			name: "track change",
			f:    NewFormatter(),
			e:    Event{Type: EventTrackChange, Current: curr},
			want: "🎵 Now playing: Arijit Singh - Kesariya",
		},
		{
			name: "no emoji with timestamp",
			f:    NewFormatter(WithEmoji(false), WithTimestamp(true)),
			e:    Event{Type: EventPause, Timestamp: ts, Current: curr},
			want: "09:30:05 Paused",
		},
		{
			name: "advance",
			f:    NewFormatter(WithEmoji(false)),
			e:    Event{Type: EventAdvance, Move: &core.Move{Moved: true, Track: &core.Track{Title: "Raja Ji", Uploader: "Pawan Singh"}}},
			want: "Auto-advanced to: Pawan Singh - Raja Ji",
		},
		{
			name: "end",
			f:    NewFormatter(WithEmoji(false)),
			e:    Event{Type: EventPlaylistEnd},
			want: "End of playlist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Format(tt.e); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}}|{{.Title}}|{{.URL}}"))
	e := Event{Type: EventTrackChange, Current: &core.Status{Meta: core.Track{ID: "abc", Title: "Song"}}}

	got := f.Format(e)
	want := "track_change|Song|https://www.youtube.com/watch?v=abc"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatBadTemplateFallsBack(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Nope"))
	got := f.Format(Event{Type: EventResume})
	if !strings.HasSuffix(got, "Resumed") {
		t.Errorf("Format() = %q", got)
	}
}
