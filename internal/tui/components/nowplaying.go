package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/tui/styles"
)

// NowPlaying displays the currently playing track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel. loading marks a track that was
// just requested and has not started yet.
func (n *NowPlaying) Render(status *core.Status, loading bool, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !status.HasTrack() {
		content = styles.Muted.Render("Nothing playing")
	} else {
		content = n.renderTrack(status, loading, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (n *NowPlaying) renderTrack(status *core.Status, loading bool, width int) string {
	track := status.Meta

	icon := styles.StatusIcon(!status.Paused && !status.Idle)
	title := styles.Title.Width(width - 4).Render(track.Title)
	uploader := styles.Subtitle.Render(track.Uploader)

	progressWidth := width - 14
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(status.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		FormatDuration(status.Position()), bar, FormatDuration(status.Length()))

	state := "playing"
	switch {
	case loading:
		state = "loading…"
	case status.Idle:
		state = "idle"
	case status.Paused:
		state = "paused"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+uploader,
		"",
		progress,
		"",
		styles.Dim.Render(state+"  ·  "+track.ID),
	)
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
