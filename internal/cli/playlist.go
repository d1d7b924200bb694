package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var playlistLimit int

var playlistCmd = &cobra.Command{
	Use:     "playlist",
	Aliases: []string{"queue", "ls"},
	Short:   "Show the playlist",
	Long:    `Show the service playlist. The track under the cursor is marked with ▶.`,
	Args:    cobra.NoArgs,
	RunE:    runPlaylist,
}

func init() {
	playlistCmd.Flags().IntVarP(&playlistLimit, "limit", "l", 0, "maximum number of tracks to show (0 for all)")
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	pl, err := newClient().Playlist(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get playlist: %w", err)
	}

	if JSONOutput() {
		return printJSON(pl)
	}

	if pl.IsEmpty() {
		fmt.Println("Playlist is empty. Run 'tunewave search <query>' or 'tunewave trending'")
		return nil
	}

	tracks := pl.Tracks
	if playlistLimit > 0 && len(tracks) > playlistLimit {
		tracks = tracks[:playlistLimit]
	}

	printTracks(os.Stdout, tracks, pl.Cursor)

	if len(tracks) < len(pl.Tracks) {
		fmt.Printf("\n... and %d more tracks\n", len(pl.Tracks)-len(tracks))
	}
	if !pl.NowPlaying.IsPlaceholder() && pl.Current() == nil {
		fmt.Printf("\nNow playing (not in playlist): %s\n", describeTrack(pl.NowPlaying))
	}
	return nil
}
