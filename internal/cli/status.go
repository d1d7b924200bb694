package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long: `Show the track mpv is playing, its position, and whether it is paused or idle.

A renderer that cannot be reached reports zero position, not paused and not idle.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := newClient().Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if JSONOutput() {
		return printJSON(status)
	}
	printStatus(status)
	return nil
}

func printStatus(s *core.Status) {
	if !s.HasTrack() {
		fmt.Println("Nothing playing")
		return
	}

	icon := "▶"
	switch {
	case s.Idle:
		icon = "⏹"
	case s.Paused:
		icon = "⏸"
	}

	fmt.Printf("%s %s\n", icon, s.Meta.Title)
	if s.Meta.Uploader != "" {
		fmt.Printf("    %s\n", s.Meta.Uploader)
	}
	fmt.Printf("    %s %s / %s\n",
		FormatProgress(s.ProgressPercent(), 30),
		FormatDuration(s.Position()),
		FormatDuration(s.Length()))
	if s.Idle {
		fmt.Println("    (idle: finished or still loading)")
	}
}
