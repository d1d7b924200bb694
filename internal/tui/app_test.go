package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/tail"
)

type fakePlayer struct {
	mu       sync.Mutex
	status   core.Status
	playlist core.Playlist
	calls    []string
	seeks    []float64
	played   []string
	results  []core.Track
}

func (f *fakePlayer) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePlayer) Play(_ context.Context, id string) error {
	f.record("play")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, id)
	return nil
}

func (f *fakePlayer) TogglePause(context.Context) error {
	f.record("pause")
	return nil
}

func (f *fakePlayer) Next(context.Context) (*core.Move, error) {
	f.record("next")
	return &core.Move{Moved: true, Cursor: 1, Track: &core.Track{ID: "b", Title: "B"}, Delivered: true}, nil
}

func (f *fakePlayer) Prev(context.Context) (*core.Move, error) {
	f.record("prev")
	return &core.Move{Moved: false, Cursor: 0}, nil
}

func (f *fakePlayer) Seek(_ context.Context, seconds float64) error {
	f.record("seek")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, seconds)
	return nil
}

func (f *fakePlayer) Status(context.Context) (*core.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.status
	return &s, nil
}

func (f *fakePlayer) Playlist(context.Context) (*core.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pl := f.playlist
	return &pl, nil
}

func (f *fakePlayer) Trending(context.Context) ([]core.Track, error) {
	f.record("trending")
	return []core.Track{{ID: "t1"}}, nil
}

func (f *fakePlayer) Search(_ context.Context, query string) ([]core.Track, error) {
	f.record("search:" + query)
	return f.results, nil
}

var _ core.Player = (*fakePlayer)(nil)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func playingStatus(id string, pos float64) core.Status {
	return core.Status{Time: pos, Duration: 200, Meta: core.Track{ID: id, Title: strings.ToUpper(id)}}
}

func TestFingerprint(t *testing.T) {
	a := &core.Playlist{Tracks: []core.Track{{ID: "a"}, {ID: "b"}}, Cursor: 0}
	b := &core.Playlist{Tracks: []core.Track{{ID: "a"}, {ID: "b"}}, Cursor: 0}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotZero(t, Fingerprint(a))

	b.Cursor = 1
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestStatusUpdatesHistory(t *testing.T) {
	m := NewModel(Options{Player: &fakePlayer{}})

	for _, s := range []core.Status{playingStatus("a", 1), playingStatus("a", 2), playingStatus("b", 1)} {
		s := s
		m, _ = update(t, m, statusMsg{status: &s})
	}

	require.Len(t, m.history, 2)
	assert.Equal(t, "b", m.history[0].Track.ID)
	assert.Equal(t, "a", m.history[1].Track.ID)
}

func TestNextOpensLoadingWindow(t *testing.T) {
	player := &fakePlayer{}
	adv := tail.NewAdvancer(player, time.Minute)
	m := NewModel(Options{Player: player, Advancer: adv})

	_, cmd := update(t, m, key("n"))
	require.NotNil(t, cmd)
	assert.True(t, adv.Loading())

	msg, ok := cmd().(actionMsg)
	require.True(t, ok)
	assert.True(t, msg.move.Moved)
	assert.Equal(t, []string{"next"}, player.calls)
}

func TestPrevAtStartSetsNotice(t *testing.T) {
	player := &fakePlayer{}
	m := NewModel(Options{Player: player})

	_, cmd := update(t, m, key("p"))
	msg := cmd()
	m, _ = update(t, m, msg)
	assert.Contains(t, m.notice, "edge of the playlist")
}

func TestSeekKeys(t *testing.T) {
	player := &fakePlayer{}
	m := NewModel(Options{Player: player})

	_, cmd := update(t, m, key("right"))
	assert.Nil(t, cmd, "seek without a track should be a no-op")

	s := playingStatus("a", 5)
	m, _ = update(t, m, statusMsg{status: &s})

	_, cmd = update(t, m, key("right"))
	cmd()
	_, cmd = update(t, m, key("left"))
	cmd()

	assert.Equal(t, []float64{15, 0}, player.seeks)
}

func TestPlaySelectedTrack(t *testing.T) {
	player := &fakePlayer{}
	m := NewModel(Options{Player: player})

	pl := &core.Playlist{Tracks: []core.Track{{ID: "a"}, {ID: "b"}, {ID: "c"}}, Cursor: core.NoCursor}
	m, _ = update(t, m, playlistMsg{playlist: pl, fingerprint: Fingerprint(pl)})

	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	_, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"c"}, player.played)
}

func TestPlaylistFingerprintSkipsUnchanged(t *testing.T) {
	m := NewModel(Options{Player: &fakePlayer{}})

	pl := &core.Playlist{Tracks: []core.Track{{ID: "a"}, {ID: "b"}}, Cursor: 1}
	m, _ = update(t, m, playlistMsg{playlist: pl, fingerprint: Fingerprint(pl)})
	assert.Equal(t, 1, m.playlistView.Selected())

	m, _ = update(t, m, key("k"))
	m, _ = update(t, m, playlistMsg{playlist: pl, fingerprint: Fingerprint(pl)})
	assert.Equal(t, 0, m.playlistView.Selected(), "identical poll should keep the selection")
}

func TestSearchOverlay(t *testing.T) {
	player := &fakePlayer{results: []core.Track{{ID: "s1", Title: "One"}, {ID: "s2", Title: "Two"}}}
	m := NewModel(Options{Player: player})

	m, _ = update(t, m, key("/"))
	require.True(t, m.showSearch)

	m.searchInput.SetValue("lofi beats")
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.searching)

	m, _ = update(t, m, cmd())
	require.Len(t, m.searchResults, 2)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd = update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.False(t, m.showSearch)
	cmd()

	assert.Equal(t, []string{"s2"}, player.played)
	assert.Contains(t, player.calls, "search:lofi beats")
}

func TestAutoAdvanceThroughStatusPoll(t *testing.T) {
	player := &fakePlayer{status: core.Status{Idle: true, Meta: core.Track{ID: "a", Title: "A"}}}
	m := NewModel(Options{Player: player, Advancer: tail.NewAdvancer(player, time.Minute)})

	msg, ok := m.fetchStatus()().(statusMsg)
	require.True(t, ok)
	require.NotNil(t, msg.move)

	m, _ = update(t, m, msg)
	assert.Contains(t, m.notice, "Auto-advanced to B")
	assert.Equal(t, []string{"next"}, player.calls)
}

func TestViewRenders(t *testing.T) {
	m := NewModel(Options{Player: &fakePlayer{}})
	assert.Equal(t, "Loading...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	s := playingStatus("a", 30)
	m, _ = update(t, m, statusMsg{status: &s})
	out := m.View()
	assert.Contains(t, out, "Now Playing")
	assert.Contains(t, out, "Playlist")
	assert.Contains(t, out, "History")

	m, _ = update(t, m, key("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
}

func TestTabCyclesPanels(t *testing.T) {
	m := NewModel(Options{Player: &fakePlayer{}})
	start := m.focusedPanel
	for i := 0; i < int(panelCount); i++ {
		m, _ = update(t, m, key("tab"))
	}
	assert.Equal(t, start, m.focusedPanel)
}
