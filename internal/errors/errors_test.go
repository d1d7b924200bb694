package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"explicit", WithSuggestion(errors.New("boom"), "do the thing"), "do the thing"},
		{"wrapped sentinel", fmt.Errorf("seek: %w", ErrInvalidPosition), "Give the position in seconds (e.g. 90) or as mm:ss (e.g. 1:30)"},
		{"refused string", errors.New("dial tcp 127.0.0.1:8765: connect: connection refused"), "Start the service with 'tunewave serve' or point --server at a running instance"},
		{"unknown", errors.New("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSuggestion(tt.err); got != tt.want {
				t.Errorf("GetSuggestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	got := Format(ErrEmptyID)
	if !strings.HasPrefix(got, "Error: track id is required\n\nSuggestion: ") {
		t.Errorf("Format() = %q", got)
	}

	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format() = %q, want %q", got, "Error: plain")
	}
}

func TestPartialResultClassify(t *testing.T) {
	empty := func(s []string) bool { return len(s) == 0 }

	complete := &PartialResult[[]string]{Data: nil}
	if got := complete.Classify(empty); got != Complete {
		t.Errorf("no errors: got %v, want complete", got)
	}

	partial := &PartialResult[[]string]{Data: []string{"a"}}
	partial.AddError(errors.New("second page failed"))
	if got := partial.Classify(empty); got != Partial {
		t.Errorf("errors with data: got %v, want partial", got)
	}

	failed := &PartialResult[[]string]{}
	failed.AddError(errors.New("boom"))
	failed.AddError(nil)
	if got := failed.Classify(empty); got != Failed {
		t.Errorf("errors without data: got %v, want failed", got)
	}
	if len(failed.Errors) != 1 {
		t.Errorf("AddError(nil) recorded an error")
	}
}

func TestPartialResultErrorSummary(t *testing.T) {
	p := &PartialResult[int]{}
	if p.Err() != nil {
		t.Fatal("Err() should be nil without errors")
	}
	p.AddError(errors.New("one"))
	if p.ErrorSummary() != "one" {
		t.Errorf("ErrorSummary() = %q, want %q", p.ErrorSummary(), "one")
	}
	p.AddError(errors.New("two"))
	if !strings.Contains(p.ErrorSummary(), "2 errors occurred") {
		t.Errorf("ErrorSummary() = %q", p.ErrorSummary())
	}
	if !strings.Contains(p.Err().Error(), "two") {
		t.Errorf("Err() = %q", p.Err())
	}
}

func TestPartialResultErrKeepsSentinels(t *testing.T) {
	p := &PartialResult[[]string]{}
	p.AddError(fmt.Errorf("page 1: %w", ErrCatalogFailed))
	p.AddError(fmt.Errorf("page 2: %w", ErrTimeout))

	err := p.Err()
	if !errors.Is(err, ErrCatalogFailed) {
		t.Errorf("errors.Is(%v, ErrCatalogFailed) = false", err)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("errors.Is(%v, ErrTimeout) = false", err)
	}
}
