package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/tunewave/internal/core"
)

var (
	searchPick   bool
	trendingPick bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search YouTube",
	Long: `Search YouTube and replace the service playlist with the results.

With --pick, choose a result to play from an interactive list.

Examples:
  tunewave search "arijit singh"
  tunewave search lofi beats --pick`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Load the trending list",
	Long:  `Replace the service playlist with the curated trending tracks.`,
	Args:  cobra.NoArgs,
	RunE:  runTrending,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchPick, "pick", "p", false, "pick a result to play")
	trendingCmd.Flags().BoolVarP(&trendingPick, "pick", "p", false, "pick a track to play")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trendingCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	tracks, err := newClient().Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(tracks) == 0 && !JSONOutput() {
		return fmt.Errorf("no results found for '%s'", query)
	}
	return showTracks(cmd, tracks, searchPick)
}

func runTrending(cmd *cobra.Command, args []string) error {
	tracks, err := newClient().Trending(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load trending: %w", err)
	}
	return showTracks(cmd, tracks, trendingPick)
}

func showTracks(cmd *cobra.Command, tracks []core.Track, pick bool) error {
	if pick && len(tracks) > 0 {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--pick needs an interactive terminal")
		}
		t, err := pickTrack(cmd.Context(), tracks)
		if err != nil {
			return err
		}
		return playTrack(cmd, t)
	}

	if JSONOutput() {
		if tracks == nil {
			tracks = []core.Track{}
		}
		return printJSON(tracks)
	}
	printTracks(os.Stdout, tracks, core.NoCursor)
	return nil
}

func pickTrack(ctx context.Context, tracks []core.Track) (core.Track, error) {
	options := make([]huh.Option[int], len(tracks))
	for i, t := range tracks {
		options[i] = huh.NewOption(describeTrack(t), i)
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select a track to play").
				Description("The playlist now holds these results").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return core.Track{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return tracks[selected], nil
}
