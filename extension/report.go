package extension

import (
	"time"

	"github.com/kbukum/hostkit/errors"
)

// Outcome is the result of loading one identifier. Extensions lists the
// declarations that completed, including those that ran before a failure.
type Outcome struct {
	Identifier string
	Extensions []string
	Duration   time.Duration
	Err        error
}

// Succeeded reports whether the identifier loaded without error.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Report collects the outcomes of one Load call, in identifier order.
type Report struct {
	Outcomes []Outcome
}

// Err returns an aggregate of every failed outcome, or nil.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.NewAggregate("hosting startup extensions failed", errs)
}

// Succeeded returns the outcomes without an error.
func (r *Report) Succeeded() []Outcome {
	return r.filter(true)
}

// Failed returns the outcomes with an error.
func (r *Report) Failed() []Outcome {
	return r.filter(false)
}

// Len returns the number of attempted identifiers.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Outcomes)
}

func (r *Report) filter(ok bool) []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Succeeded() == ok {
			out = append(out, o)
		}
	}
	return out
}
