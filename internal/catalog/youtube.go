package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/errors"
)

const unknownUploader = "Unknown"

// Runner runs a yt-dlp extraction for target and returns its JSON output.
// Output may be non-empty even when err is set.
type Runner func(ctx context.Context, target string) ([]byte, error)

// YouTube searches YouTube with yt-dlp's flat extraction.
type YouTube struct {
	run     Runner
	timeout time.Duration
	log     zerolog.Logger
}

// NewYouTube creates a YouTube catalog that shells out to yt-dlp.
func NewYouTube(timeout time.Duration, log zerolog.Logger) *YouTube {
	return NewYouTubeWithRunner(RunYTDLP, timeout, log)
}

// NewYouTubeWithRunner creates a YouTube catalog backed by run.
func NewYouTubeWithRunner(run Runner, timeout time.Duration, log zerolog.Logger) *YouTube {
	return &YouTube{run: run, timeout: timeout, log: log}
}

// RunYTDLP dumps the flat search result for target as a single JSON document.
func RunYTDLP(ctx context.Context, target string) ([]byte, error) {
	res, err := ytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		SkipDownload().
		Quiet().
		NoWarnings().
		Run(ctx, target)

	var out []byte
	if res != nil {
		out = []byte(res.Stdout)
	}
	if err != nil {
		return out, fmt.Errorf("yt-dlp: %w", err)
	}
	return out, nil
}

// Search returns up to limit tracks for query. Entries yt-dlp could not
// describe are skipped and reported as errors on the result.
func (y *YouTube) Search(ctx context.Context, query string, limit int) *Result {
	result := &Result{Data: []core.Track{}}

	query = NormalizeQuery(query)
	if query == "" {
		return result
	}
	limit = clampLimit(limit)

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	start := time.Now()
	out, runErr := y.run(ctx, fmt.Sprintf("ytsearch%d:%s", limit, query))
	if runErr != nil {
		result.AddError(fmt.Errorf("%w: %v", errors.ErrCatalogFailed, runErr))
	}

	if len(out) > 0 {
		tracks, errs := parseSearch(out)
		result.Data = tracks
		for _, err := range errs {
			result.AddError(err)
		}
	} else if runErr == nil {
		result.AddError(fmt.Errorf("%w: yt-dlp produced no output", errors.ErrCatalogFailed))
	}

	y.log.Debug().
		Str("query", query).
		Int("results", len(result.Data)).
		Stringer("outcome", Classify(result)).
		Dur("took", time.Since(start)).
		Msg("search finished")
	return result
}

type searchDocument struct {
	Entries []searchEntry `json:"entries"`
}

type searchEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Uploader   string `json:"uploader"`
	Channel    string `json:"channel"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

func (e searchEntry) track() core.Track {
	uploader := e.Uploader
	if uploader == "" {
		uploader = e.Channel
	}
	if uploader == "" {
		uploader = unknownUploader
	}

	thumb := ""
	if len(e.Thumbnails) > 0 {
		thumb = e.Thumbnails[0].URL
	}

	return core.Track{
		ID:       e.ID,
		Title:    e.Title,
		Uploader: uploader,
		Thumb:    thumb,
	}
}

func parseSearch(data []byte) ([]core.Track, []error) {
	var doc searchDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return []core.Track{}, []error{fmt.Errorf("%w: decode yt-dlp output: %v", errors.ErrCatalogFailed, err)}
	}

	tracks := make([]core.Track, 0, len(doc.Entries))
	var errs []error
	for i, e := range doc.Entries {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("entry %d: missing id", i))
			continue
		}
		tracks = append(tracks, e.track())
	}
	return tracks, errs
}
