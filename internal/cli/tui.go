package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/tail"
	"github.com/tessro/tunewave/internal/tui"
)

var (
	tuiRefresh   int
	tuiTheme     string
	tuiNoAdvance bool
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Now Playing - current track and progress
  • Playlist - service playlist with the cursor marked
  • History - tracks played this session

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  t            Load trending
  Space        Pause/Resume
  n            Next track
  p            Previous track
  ←/→          Seek -/+10s
  Enter        Play selected track
  y            Copy track URL
  Tab          Switch panel`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "refresh interval in milliseconds (default: tui.refresh_interval)")
	tuiCmd.Flags().StringVar(&tuiTheme, "theme", "", "color theme: auto, latte, frappe, macchiato, mocha")
	tuiCmd.Flags().BoolVar(&tuiNoAdvance, "no-auto-advance", false, "do not play the next track when one finishes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	c := newClient()

	refresh := cfg.TUI.RefreshEvery()
	if tuiRefresh > 0 {
		refresh = time.Duration(tuiRefresh) * time.Millisecond
	}
	theme := cfg.TUI.Theme
	if tuiTheme != "" {
		theme = tuiTheme
	}

	opts := tui.Options{
		Player:      c,
		RefreshRate: refresh,
		URLTemplate: cfg.Player.URLTemplate,
		Theme:       theme,
	}
	if !tuiNoAdvance {
		opts.Advancer = tail.NewAdvancer(c, cfg.Tail.Window())
	}

	return tui.Run(opts)
}
