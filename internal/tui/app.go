package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/tail"
	"github.com/tessro/tunewave/internal/tui/components"
	"github.com/tessro/tunewave/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelPlaylist
	PanelHistory
	panelCount
)

const (
	seekStep      = 10.0
	requestWindow = 5 * time.Second
	noticeTTL     = 3 * time.Second
	maxResults    = 10
)

// Options configures the dashboard.
type Options struct {
	Player      core.Player
	RefreshRate time.Duration
	// Advancer enables auto-advance when set.
	Advancer    *tail.Advancer
	URLTemplate string
	Theme       string
}

// Model is the main TUI model
type Model struct {
	opts   Options
	width  int
	height int

	focusedPanel Panel

	status      *core.Status
	playlist    *core.Playlist
	fingerprint uint64
	history     []core.HistoryEntry

	nowPlaying   *components.NowPlaying
	playlistView *components.Playlist
	historyView  *components.History

	showHelp bool

	showSearch    bool
	searchInput   textinput.Model
	searchResults []core.Track
	searchCursor  int
	searching     bool
	lastQuery     string
	searchErr     error

	lastError   error
	errorExpiry time.Time
	notice      string
	noticeUntil time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "Search YouTube..."
	ti.CharLimit = 100
	ti.Width = 50

	return Model{
		opts:         opts,
		focusedPanel: PanelPlaylist,
		nowPlaying:   components.NewNowPlaying(),
		playlistView: components.NewPlaylist(),
		historyView:  components.NewHistory(),
		searchInput:  ti,
	}
}

// Messages
type tickMsg time.Time

type statusMsg struct {
	status *core.Status
	move   *core.Move
}

type playlistMsg struct {
	playlist    *core.Playlist
	fingerprint uint64
}

type errMsg struct{ err error }

type noticeMsg string

// actionMsg follows any command that may have changed the playlist or
// the loaded track.
type actionMsg struct {
	move *core.Move
}

type searchResultsMsg struct {
	query  string
	tracks []core.Track
	err    error
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestWindow)
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchStatus() tea.Cmd {
	player, adv := m.opts.Player, m.opts.Advancer
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		status, err := player.Status(ctx)
		if err != nil {
			return errMsg{err}
		}
		msg := statusMsg{status: status}
		if adv != nil {
			move, err := adv.Observe(ctx, status)
			if err != nil {
				return errMsg{err}
			}
			msg.move = move
		}
		return msg
	}
}

func (m Model) fetchPlaylist() tea.Cmd {
	player := m.opts.Player
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		pl, err := player.Playlist(ctx)
		if err != nil {
			return errMsg{err}
		}
		return playlistMsg{playlist: pl, fingerprint: Fingerprint(pl)}
	}
}

// Fingerprint hashes a playlist so unchanged polls can be ignored.
func Fingerprint(pl *core.Playlist) uint64 {
	h, err := hashstructure.Hash(pl, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

func (m Model) markLoading() {
	if m.opts.Advancer != nil {
		m.opts.Advancer.MarkLoading()
	}
}

func (m Model) togglePause() tea.Cmd {
	player := m.opts.Player
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if err := player.TogglePause(ctx); err != nil {
			return errMsg{err}
		}
		return actionMsg{}
	}
}

func (m Model) navigate(next bool) tea.Cmd {
	player := m.opts.Player
	m.markLoading()
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		var move *core.Move
		var err error
		if next {
			move, err = player.Next(ctx)
		} else {
			move, err = player.Prev(ctx)
		}
		if err != nil {
			return errMsg{err}
		}
		return actionMsg{move: move}
	}
}

func (m Model) play(id string) tea.Cmd {
	player := m.opts.Player
	m.markLoading()
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if err := player.Play(ctx, id); err != nil {
			return errMsg{err}
		}
		return actionMsg{}
	}
}

func (m Model) seekBy(delta float64) tea.Cmd {
	if !m.status.HasTrack() {
		return nil
	}
	pos := m.status.Time + delta
	if pos < 0 {
		pos = 0
	}
	player := m.opts.Player
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if err := player.Seek(ctx, pos); err != nil {
			return errMsg{err}
		}
		return actionMsg{}
	}
}

func (m Model) loadTrending() tea.Cmd {
	player := m.opts.Player
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		tracks, err := player.Trending(ctx)
		if err != nil {
			return errMsg{err}
		}
		return noticeMsg(fmt.Sprintf("Loaded %d trending tracks", len(tracks)))
	}
}

func (m Model) doSearch(query string) tea.Cmd {
	player := m.opts.Player
	return func() tea.Msg {
		// Catalog searches are slow; the service bounds them itself.
		tracks, err := player.Search(context.Background(), query)
		return searchResultsMsg{query: query, tracks: tracks, err: err}
	}
}

func (m Model) copyURL() tea.Cmd {
	if !m.status.HasTrack() {
		return nil
	}
	url := core.URL(m.opts.URLTemplate, m.status.Meta.ID)
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return errMsg{err}
		}
		return noticeMsg("Copied " + url)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchStatus(),
		m.fetchPlaylist(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchStatus(), m.fetchPlaylist())

	case statusMsg:
		m.clearExpiredError()
		prev := m.status
		m.status = msg.status
		if msg.status.HasTrack() && (prev == nil || prev.Meta.ID != msg.status.Meta.ID) {
			m.history = components.Push(m.history, core.HistoryEntry{
				Track:    msg.status.Meta,
				PlayedAt: time.Now(),
			})
		}
		if msg.move != nil {
			if msg.move.Moved && msg.move.Track != nil {
				m.setNotice("Auto-advanced to " + msg.move.Track.Title)
			} else if !msg.move.Moved {
				m.setNotice("End of playlist")
			}
			return m, m.fetchPlaylist()
		}
		return m, nil

	case playlistMsg:
		m.clearExpiredError()
		if msg.fingerprint != 0 && msg.fingerprint == m.fingerprint {
			return m, nil
		}
		replaced := m.playlist == nil || !sameTracks(m.playlist, msg.playlist)
		m.playlist = msg.playlist
		m.fingerprint = msg.fingerprint
		if replaced {
			m.playlistView.Select(msg.playlist.Cursor)
		}
		return m, nil

	case actionMsg:
		if msg.move != nil && !msg.move.Moved {
			m.setNotice("Already at the edge of the playlist")
		}
		return m, tea.Batch(m.fetchStatus(), m.fetchPlaylist())

	case noticeMsg:
		m.setNotice(string(msg))
		return m, m.fetchPlaylist()

	case errMsg:
		m.lastError = msg.err
		m.errorExpiry = time.Now().Add(5 * time.Second)
		return m, nil

	case searchResultsMsg:
		if msg.query != m.lastQuery {
			return m, nil
		}
		m.searching = false
		m.searchResults = msg.tracks
		m.searchErr = msg.err
		m.searchCursor = 0
		return m, m.fetchPlaylist()
	}

	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func sameTracks(a, b *core.Playlist) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Tracks {
		if a.Tracks[i].ID != b.Tracks[i].ID {
			return false
		}
	}
	return true
}

func (m *Model) clearExpiredError() {
	if time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.noticeUntil = time.Now().Add(noticeTTL)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		m.lastQuery = ""
		m.searchErr = nil
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case " ":
		return m, m.togglePause()
	case "n":
		return m, m.navigate(true)
	case "p":
		return m, m.navigate(false)
	case "right", "l":
		return m, m.seekBy(seekStep)
	case "left", "h":
		return m, m.seekBy(-seekStep)
	case "t":
		return m, m.loadTrending()
	case "y":
		return m, m.copyURL()
	case "r":
		return m, m.fetchPlaylist()
	}

	if m.focusedPanel == PanelPlaylist {
		switch msg.String() {
		case "j", "down":
			m.playlistView.SelectNext(m.playlist.Len())
		case "k", "up":
			m.playlistView.SelectPrev()
		case "enter":
			i := m.playlistView.Selected()
			if i >= 0 && i < m.playlist.Len() {
				return m, m.play(m.playlist.Tracks[i].ID)
			}
		}
	}

	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query != "" && query != m.lastQuery {
			m.lastQuery = query
			m.searching = true
			m.searchErr = nil
			return m, m.doSearch(query)
		}
		if m.searchCursor < len(m.searchResults) {
			id := m.searchResults[m.searchCursor].ID
			m.showSearch = false
			m.searchInput.Blur()
			return m, m.play(id)
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil
	}

	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	return m, inputCmd
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Left: Now Playing (top), Playlist (bottom). Right: History.
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2
	loading := m.opts.Advancer != nil && m.opts.Advancer.Loading()

	nowPlaying := m.nowPlaying.Render(m.status, loading, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	playlist := m.playlistView.Render(m.playlist, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelPlaylist)
	history := m.historyView.Render(m.history, rightWidth-2, m.height-4, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, playlist)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, history)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  t:trending  space:pause  n/p:next/prev  ←/→:seek  y:copy  tab:panel")

	switch {
	case m.lastError != nil:
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
	case m.notice != "" && time.Now().Before(m.noticeUntil):
		status = styles.Highlight.Render(m.notice)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "tunewave - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Search
  t            Load trending
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh

  Playback
  ────────
  Space        Pause/Resume
  n            Next track
  p            Previous track
  ←/→          Seek -/+10s
  y            Copy track URL

  Playlist Panel
  ──────────────
  j/↓          Select next
  k/↑          Select previous
  Enter        Play selected

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch {
	case m.searchErr != nil:
		b.WriteString(styles.ErrorText.Render("Error: " + m.searchErr.Error()))
	case m.searching:
		b.WriteString(styles.Muted.Render("Searching..."))
	case len(m.searchResults) == 0 && m.lastQuery != "":
		b.WriteString(styles.Muted.Render("No results found"))
	default:
		for i, track := range m.searchResults {
			if i >= maxResults {
				b.WriteString(styles.Muted.Render("  ...and more"))
				break
			}

			line := track.Title + " " + styles.Muted.Render(track.Uploader)
			if i == m.searchCursor {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Enter:search/play  ↑/↓:nav  Esc:close"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the TUI application
func Run(opts Options) error {
	styles.Apply(opts.Theme)

	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
