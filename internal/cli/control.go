package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

var pauseCmd = &cobra.Command{
	Use:     "pause",
	Aliases: []string{"resume"},
	Short:   "Toggle pause",
	Long:    `Pause playback, or resume it if it is already paused.`,
	Args:    cobra.NoArgs,
	RunE:    runPause,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Long:  `Move the playlist cursor forward and play that track. Does nothing at the end of the playlist.`,
	Args:  cobra.NoArgs,
	RunE:  runNext,
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track",
	Long:  `Move the playlist cursor back and play that track. Does nothing at the start of the playlist.`,
	Args:  cobra.NoArgs,
	RunE:  runPrev,
}

var seekCmd = &cobra.Command{
	Use:   "seek <position>",
	Short: "Seek within the current track",
	Long: `Jump to an absolute position in the current track.

The position is seconds, or m:ss / h:mm:ss.

Examples:
  tunewave seek 90
  tunewave seek 1:30
  tunewave seek 0`,
	Args: cobra.ExactArgs(1),
	RunE: runSeek,
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(seekCmd)
}

func runPause(cmd *cobra.Command, args []string) error {
	if err := newClient().TogglePause(cmd.Context()); err != nil {
		return fmt.Errorf("failed to toggle pause: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "ok"})
	}
	fmt.Println("⏯ Toggled pause")
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	move, err := newClient().Next(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to skip: %w", err)
	}
	return printMove(move, "⏭", "Already at the last track")
}

func runPrev(cmd *cobra.Command, args []string) error {
	move, err := newClient().Prev(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to go back: %w", err)
	}
	return printMove(move, "⏮", "Already at the first track")
}

func printMove(move *core.Move, icon, edge string) error {
	if JSONOutput() {
		return printJSON(map[string]interface{}{"status": "ok", "move": move})
	}
	if !move.Moved || move.Track == nil {
		fmt.Println(edge)
		return nil
	}
	fmt.Printf("%s %d. %s\n", icon, move.Cursor+1, describeTrack(*move.Track))
	if !move.Delivered {
		fmt.Println("  (renderer did not acknowledge the load)")
	}
	return nil
}

func runSeek(cmd *cobra.Command, args []string) error {
	pos, err := ParsePosition(args[0])
	if err != nil {
		return err
	}

	if err := newClient().Seek(cmd.Context(), pos); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{"status": "ok", "position": pos})
	}
	fmt.Printf("⏩ Seeked to %s\n", args[0])
	return nil
}

// ParsePosition parses seconds ("90", "12.5") or clock notation ("1:30",
// "1:02:03") into seconds.
func ParsePosition(s string) (float64, error) {
	s = strings.TrimSpace(s)
	invalid := twerrors.WithSuggestion(
		fmt.Errorf("%w: %q", twerrors.ErrInvalidPosition, s),
		"Use seconds (90) or m:ss (1:30)",
	)

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, invalid
	}

	var total float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || v != v {
			return 0, invalid
		}
		// Only the last field may be fractional or exceed 59.
		if i < len(parts)-1 && v != float64(int(v)) {
			return 0, invalid
		}
		if i > 0 && v >= 60 {
			return 0, invalid
		}
		total = total*60 + v
	}
	if total > 1e9 {
		return 0, invalid
	}
	return total, nil
}

func describeTrack(t core.Track) string {
	if t.Uploader == "" {
		return t.Title
	}
	return fmt.Sprintf("%s — %s", t.Title, t.Uploader)
}
