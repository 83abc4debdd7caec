package modmk

import (
	"errors"
	"time"

	"github.com/bits-and-blooms/bitset"
)

type StepResult struct {
	Step    StepKind
	Dir     string
	Skipped string // reason; empty if the step ran
	Err     error
	Took    time.Duration
}

// Report collects the outcome of the steps of one module build.
type Report struct {
	Module string
	Steps  []StepResult

	failed bitset.BitSet
}

func (r *Report) add(res StepResult) {
	if res.Err != nil {
		r.failed.Set(uint(len(r.Steps)))
	}
	r.Steps = append(r.Steps, res)
}

// Failed returns the number of failed steps.
func (r *Report) Failed() int { return int(r.failed.Count()) }

// Ran reports whether step was run, successfully or not.
func (r *Report) Ran(step StepKind) bool {
	for _, s := range r.Steps {
		if s.Step == step {
			return s.Skipped == ""
		}
	}
	return false
}

// FailedSteps returns the results of failed steps in build order.
func (r *Report) FailedSteps() (res []StepResult) {
	for i, ok := r.failed.NextSet(0); ok; i, ok = r.failed.NextSet(i + 1) {
		res = append(res, r.Steps[i])
	}
	return res
}

// Err joins the errors of all failed steps. It is nil if no step failed.
func (r *Report) Err() error {
	var errs []error
	for _, s := range r.FailedSteps() {
		errs = append(errs, &StepError{Module: r.Module, Step: s.Step, Err: s.Err})
	}
	return errors.Join(errs...)
}

type StepError struct {
	Module string
	Step   StepKind
	Err    error
}

func (e *StepError) Error() string {
	return e.Step.String() + " build of module '" + e.Module + "': " + e.Err.Error()
}

func (e *StepError) Unwrap() error { return e.Err }
