package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrServerUnavailable = errors.New("tunewave server unavailable")
	ErrRendererNotFound  = errors.New("renderer binary not found")
	ErrInvalidPosition   = errors.New("invalid seek position")
	ErrEmptyID           = errors.New("track id is required")
	ErrUnknownCommand    = errors.New("unknown control command")
	ErrCatalogFailed     = errors.New("catalog search failed")
	ErrTimeout           = errors.New("request timeout")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// TunewaveError wraps an error with a user-friendly suggestion.
type TunewaveError struct {
	Err        error
	Suggestion string
}

func (e *TunewaveError) Error() string {
	return e.Err.Error()
}

func (e *TunewaveError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &TunewaveError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var twErr *TunewaveError
	if errors.As(err, &twErr) && twErr.Suggestion != "" {
		return twErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Service reachability
	if errors.Is(err, ErrServerUnavailable) || strings.Contains(errStr, "connection refused") {
		return "Start the service with 'tunewave serve' or point --server at a running instance"
	}

	if errors.Is(err, ErrRendererNotFound) || strings.Contains(errStr, "executable file not found") {
		return "Install mpv or set player.binary in your config"
	}

	// Validation
	if errors.Is(err, ErrInvalidPosition) {
		return "Give the position in seconds (e.g. 90) or as mm:ss (e.g. 1:30)"
	}

	if errors.Is(err, ErrEmptyID) {
		return "Run 'tunewave search <query>' or 'tunewave playlist' to find a track id"
	}

	if errors.Is(err, ErrUnknownCommand) {
		return "Valid control commands are pause, next and prev"
	}

	if errors.Is(err, ErrCatalogFailed) || strings.Contains(errStr, "yt-dlp") {
		return "Check that yt-dlp is installed and your network is reachable"
	}

	if errors.Is(err, ErrTimeout) || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return "The service did not answer in time. Try again or raise client.timeout"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'tunewave config init' to write a default configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
