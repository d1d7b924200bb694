// Package client is the HTTP client the CLI and TUI use to drive a running
// tunewave service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

const (
	// DefaultServer is the address `tunewave serve` listens on by default.
	DefaultServer = "http://127.0.0.1:5000"

	// DefaultSearchTimeout bounds /search and /trending, which wait on the
	// catalog rather than the renderer.
	DefaultSearchTimeout = 45 * time.Second

	maxRetries    = 2
	baseRetryWait = 200 * time.Millisecond
)

// Client talks to a tunewave service. It implements core.Player.
type Client struct {
	httpClient   *http.Client
	searchClient *http.Client
	baseURL      string
	verbose    bool
	logFunc    func(format string, args ...interface{})
}

var _ core.Player = (*Client)(nil)

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		searchClient: &http.Client{Timeout: DefaultSearchTimeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// SetSearchTimeout sets the timeout for search and trending calls. It should
// outlast the service's catalog timeout.
func (c *Client) SetSearchTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.searchClient.Timeout = timeout
	}
}

// SetVerbose enables verbose logging.
func (c *Client) SetVerbose(verbose bool, logFunc func(format string, args ...interface{})) {
	c.verbose = verbose
	c.logFunc = logFunc
}

func (c *Client) log(format string, args ...interface{}) {
	if c.verbose && c.logFunc != nil {
		c.logFunc(format, args...)
	}
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Play loads a track by id.
func (c *Client) Play(ctx context.Context, id string) error {
	if id == "" {
		return twerrors.ErrEmptyID
	}
	return c.post(ctx, BuildURL("/play", map[string]string{"id": id}), nil)
}

// TogglePause pauses or resumes playback.
func (c *Client) TogglePause(ctx context.Context) error {
	return c.post(ctx, "/control/pause", nil)
}

// Next skips to the next playlist track.
func (c *Client) Next(ctx context.Context) (*core.Move, error) {
	return c.navigate(ctx, "next")
}

// Prev goes back one playlist track.
func (c *Client) Prev(ctx context.Context) (*core.Move, error) {
	return c.navigate(ctx, "prev")
}

func (c *Client) navigate(ctx context.Context, cmd string) (*core.Move, error) {
	var resp struct {
		Move core.Move `json:"move"`
	}
	if err := c.post(ctx, "/control/"+cmd, &resp); err != nil {
		return nil, err
	}
	return &resp.Move, nil
}

// Seek jumps to an absolute position in seconds.
func (c *Client) Seek(ctx context.Context, seconds float64) error {
	pos := strconv.FormatFloat(seconds, 'f', -1, 64)
	return c.post(ctx, BuildURL("/seek", map[string]string{"pos": pos}), nil)
}

// Status returns the current status document.
func (c *Client) Status(ctx context.Context) (*core.Status, error) {
	var status core.Status
	if err := c.get(ctx, "/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Playlist returns the service's playlist, cursor and now-playing track.
func (c *Client) Playlist(ctx context.Context) (*core.Playlist, error) {
	var pl core.Playlist
	if err := c.get(ctx, "/playlist", &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

// Trending replaces the playlist with the curated list and returns it.
func (c *Client) Trending(ctx context.Context) ([]core.Track, error) {
	var tracks []core.Track
	if err := c.do(ctx, c.searchClient, http.MethodGet, "/trending", &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Search runs a catalog search on the service. The service replaces its
// playlist with the results.
func (c *Client) Search(ctx context.Context, query string) ([]core.Track, error) {
	var tracks []core.Track
	path := BuildURL("/search", map[string]string{"q": query})
	if err := c.do(ctx, c.searchClient, http.MethodGet, path, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Health describes the service and its renderer.
type Health struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Renderer core.RendererInfo `json:"renderer"`
}

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// get retries transient failures. Only read-only endpoints go through it.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = baseRetryWait

	attempt := 0
	op := func() error {
		attempt++
		err := c.request(ctx, http.MethodGet, path, result)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return backoff.Permanent(err)
		}
		if err != nil && attempt <= maxRetries {
			c.log("[tunewave] retry %d/%d: %v", attempt, maxRetries, err)
		}
		return err
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx))
}

func (c *Client) post(ctx context.Context, path string, result interface{}) error {
	return c.request(ctx, http.MethodPost, path, result)
}

func (c *Client) request(ctx context.Context, method, path string, result interface{}) error {
	return c.do(ctx, c.httpClient, method, path, result)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, result interface{}) error {
	fullURL := c.baseURL + path
	c.log("[tunewave] %s %s", method, fullURL)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("%w at %s", twerrors.ErrServerUnavailable, c.baseURL)
		}
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return fmt.Errorf("%w: %s %s", twerrors.ErrTimeout, method, path)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log("[tunewave] response: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// APIError is an error response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tunewave error %d: %s", e.Status, e.Message)
}

// IsValidationError reports whether err is a 400 from the service.
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
