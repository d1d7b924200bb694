package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/tui/styles"
)

// Playlist displays the service playlist with the cursor marked and a
// movable selection.
type Playlist struct {
	offset   int
	selected int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// SelectNext moves the selection down, stopping at n-1.
func (p *Playlist) SelectNext(n int) {
	if p.selected < n-1 {
		p.selected++
	}
}

// SelectPrev moves the selection up
func (p *Playlist) SelectPrev() {
	if p.selected > 0 {
		p.selected--
	}
}

// Select sets the selection, typically to the cursor after a reload.
func (p *Playlist) Select(i int) {
	if i < 0 {
		i = 0
	}
	p.selected = i
	p.offset = 0
}

// Selected returns the selected index
func (p *Playlist) Selected() int {
	return p.selected
}

// Render renders the playlist panel
func (p *Playlist) Render(pl *core.Playlist, width, height int, focused bool) string {
	title := styles.PanelTitle("Playlist", focused)

	var content string
	if pl == nil || pl.IsEmpty() {
		content = styles.Muted.Render("Playlist is empty. Press / to search or t for trending")
	} else {
		content = p.renderTracks(pl, width-4, height-4, focused)
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

func (p *Playlist) renderTracks(pl *core.Playlist, width, maxLines int, focused bool) string {
	tracks := pl.Tracks
	if p.selected >= len(tracks) {
		p.selected = len(tracks) - 1
	}

	visible := maxLines - 1
	if visible < 1 {
		visible = 1
	}

	// Keep the selection on screen.
	if p.selected < p.offset {
		p.offset = p.selected
	}
	if p.selected >= p.offset+visible {
		p.offset = p.selected - visible + 1
	}

	end := p.offset + visible
	if end > len(tracks) {
		end = len(tracks)
	}

	lines := make([]string, 0, end-p.offset+1)

	// prefix and separator columns
	const overhead = 9

	for i := p.offset; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%2d.", i+1)
		title, uploader := fit(track.Title, track.Uploader, width-overhead)

		var line string
		if i == pl.Cursor {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s — %s", num, title, uploader))
		} else {
			line = fmt.Sprintf("%s   %s — %s",
				styles.Dim.Render(num),
				title,
				styles.Muted.Render(uploader))
		}
		if focused && i == p.selected {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fit truncates title and uploader to share available columns, giving the
// uploader at least a third of the space.
func fit(title, uploader string, available int) (string, string) {
	if len(title)+len(uploader) <= available {
		return title, uploader
	}

	minUploader := available / 3
	if minUploader < 8 {
		minUploader = 8
	}
	if minUploader > available-8 {
		minUploader = available - 8
	}

	uploaderSpace := minUploader
	if len(uploader) < uploaderSpace {
		uploaderSpace = len(uploader)
	}
	return truncate(title, available-uploaderSpace), truncate(uploader, uploaderSpace)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
