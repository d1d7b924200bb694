package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/tail"
)

var (
	tailNoEmoji     bool
	tailTimestamp   bool
	tailFormat      string
	tailInterval    time.Duration
	tailAutoAdvance bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch for playback state changes and print them as they happen.

Events tracked:
  - Track changes (new track loaded)
  - Track completions (renderer went idle)
  - Pause/Resume
  - Auto-advance and end of playlist (with --auto-advance)

With --auto-advance, tail plays the next playlist track whenever the current
one finishes, which keeps a playlist going without the web player open.

Template fields for --format: .Type .Emoji .Time .Timestamp .ID .Title
.Uploader .URL .Position .Duration`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default: tail.interval)")
	tailCmd.Flags().BoolVarP(&tailAutoAdvance, "auto-advance", "a", false, "play the next track when one finishes (default: tail.auto_advance)")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	c := newClient()

	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)

	interval := tailInterval
	if interval <= 0 {
		interval = cfg.Tail.PollEvery()
	}

	opts := []tail.WatcherOption{
		tail.WithErrorHandler(func(err error) {
			if Verbose() {
				fmt.Fprintf(os.Stderr, "poll: %v\n", err)
			}
		}),
	}
	if tailAutoAdvance || cfg.Tail.AutoAdvance {
		opts = append(opts, tail.WithAdvancer(tail.NewAdvancer(c, cfg.Tail.Window())))
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher := tail.NewWatcher(c, interval, opts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return waitWatcher(errCh)
			}
			fmt.Println(formatter.Format(event))

		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func waitWatcher(errCh <-chan error) error {
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
