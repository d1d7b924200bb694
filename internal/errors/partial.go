package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome classifies how a PartialResult was produced.
type Outcome int

const (
	// Complete means no errors were recorded.
	Complete Outcome = iota
	// Partial means errors were recorded but some data survived.
	Partial
	// Failed means errors were recorded and no usable data remains.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Classify reports the outcome. empty decides whether Data carries nothing
// usable; it is only consulted when errors were recorded.
func (p *PartialResult[T]) Classify(empty func(T) bool) Outcome {
	if !p.HasErrors() {
		return Complete
	}
	if empty != nil && empty(p.Data) {
		return Failed
	}
	return Partial
}

// Err joins the recorded errors, or returns nil. Each recorded error stays
// reachable through errors.Is.
func (p *PartialResult[T]) Err() error {
	if len(p.Errors) == 1 {
		return p.Errors[0]
	}
	return errors.Join(p.Errors...)
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
