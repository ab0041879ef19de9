package video

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrBusy is returned by Runner.Start while another cut is running
var ErrBusy = errors.New("a cut is already running")

// Cutter runs a single cut
type Cutter interface {
	Cut(ctx context.Context, input CutInput) (*CutResult, error)
}

// Outcome is the result of a background cut
type Outcome struct {
	Input  CutInput
	Result *CutResult
	Err    error
}

// Runner runs at most one cut at a time in the background
type Runner struct {
	cutter Cutter
	busy   atomic.Bool
}

// NewRunner creates a Runner around cutter
func NewRunner(cutter Cutter) *Runner {
	return &Runner{cutter: cutter}
}

// Busy reports whether a cut is in flight
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Start launches the cut on a goroutine. The returned channel receives exactly
// one Outcome; Busy is already false when it arrives.
func (r *Runner) Start(ctx context.Context, input CutInput) (<-chan Outcome, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	done := make(chan Outcome, 1)
	go func() {
		result, err := r.cutter.Cut(ctx, input)
		r.busy.Store(false)
		done <- Outcome{Input: input, Result: result, Err: err}
	}()

	return done, nil
}
