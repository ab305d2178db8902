package errors

import (
	"fmt"
	"strings"
)

// AggregateError is a composite of independent failures. It is produced when
// several operations are attempted and more than one may fail.
type AggregateError struct {
	Message string
	errs    []error
}

// NewAggregate returns an AggregateError holding the non-nil errors, or nil
// when there are none.
func NewAggregate(message string, errs []error) error {
	kept := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &AggregateError{Message: message, errs: kept}
}

// Error returns the message followed by each inner error.
func (e *AggregateError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%d error", e.Message, len(e.errs)))
	if len(e.errs) != 1 {
		b.WriteString("s")
	}
	b.WriteString(")")
	for i, err := range e.errs {
		b.WriteString(fmt.Sprintf("\n  [%d] %v", i, err))
	}
	return b.String()
}

// Unwrap exposes the inner errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors() }

// Errors returns a copy of the inner errors.
func (e *AggregateError) Errors() []error {
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

// Len returns the number of inner errors.
func (e *AggregateError) Len() int { return len(e.errs) }

// AsAggregate extracts an AggregateError from err.
func AsAggregate(err error) (*AggregateError, bool) {
	var agg *AggregateError
	if As(err, &agg) {
		return agg, true
	}
	return nil, false
}
