package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/tui/styles"
)

// MaxHistory bounds the session history.
const MaxHistory = 50

// History displays tracks played this session, newest first.
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Push records a track at the front of entries and trims the result.
// Repeated observations of the same track are collapsed.
func Push(entries []core.HistoryEntry, e core.HistoryEntry) []core.HistoryEntry {
	if len(entries) > 0 && entries[0].Track.ID == e.Track.ID {
		return entries
	}
	entries = append([]core.HistoryEntry{e}, entries...)
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	return entries
}

// Render renders the history panel
func (h *History) Render(entries []core.HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
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

func (h *History) renderHistory(entries []core.HistoryEntry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		ago := humanize.Time(entry.PlayedAt)
		title, uploader := fit(entry.Track.Title, entry.Track.Uploader, width-6-len(ago))
		info := fmt.Sprintf("%s — %s", title, uploader)

		padding := width - 2 - lipgloss.Width(info) - len(ago)
		if padding < 1 {
			padding = 1
		}

		lines = append(lines, fmt.Sprintf("%s %s%*s%s",
			styles.Dim.Render("✓"),
			info,
			padding, "",
			styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
