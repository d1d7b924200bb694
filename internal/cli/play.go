package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

var playCmd = &cobra.Command{
	Use:   "play <id|url>",
	Short: "Play a track",
	Long: `Play a YouTube video by id or URL.

If the track is in the playlist, the playlist cursor moves to it so next and
prev continue from there. Otherwise the cursor stays where it is.

Examples:
  tunewave play V7LwfY5U5WI
  tunewave play https://www.youtube.com/watch?v=V7LwfY5U5WI
  tunewave play https://youtu.be/V7LwfY5U5WI`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	id, err := ParseTrackID(args[0])
	if err != nil {
		return err
	}
	return playTrack(cmd, core.Track{ID: id})
}

// playTrack plays t and reports it; t.Title may be empty when only the id
// is known.
func playTrack(cmd *cobra.Command, t core.Track) error {
	if err := newClient().Play(cmd.Context(), t.ID); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"status": "playing",
			"id":     t.ID,
			"url":    core.URL(cfg.Player.URLTemplate, t.ID),
		})
	}
	if t.Title != "" {
		fmt.Printf("▶ Playing %s\n", describeTrack(t))
	} else {
		fmt.Printf("▶ Playing %s\n", t.ID)
	}
	return nil
}

// ParseTrackID accepts a bare video id or a youtube.com / youtu.be URL.
func ParseTrackID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", twerrors.ErrEmptyID
	}
	if !strings.Contains(s, "/") {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid track URL %q: %w", s, err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	host = strings.TrimPrefix(host, "m.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		id = u.Query().Get("v")
		if id == "" && strings.HasPrefix(u.Path, "/shorts/") {
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", s)
	}

	if id == "" {
		return "", twerrors.ErrEmptyID
	}
	return id, nil
}
