package requestlog

import (
	"context"
	"sync/atomic"
	"time"
)

type accumulatorKey struct{}

// Accumulator sums durations reported while one request is being handled.
// Each request gets its own Accumulator through its context; nothing is shared
// between requests. Adds are atomic so goroutines started by the same request
// may report concurrently.
type Accumulator struct {
	total  atomic.Int64 // nanoseconds
	closed atomic.Bool
	owner  *RequestLogger
}

// WithAccumulator returns a child context carrying a fresh, active Accumulator
func WithAccumulator(ctx context.Context) (context.Context, *Accumulator) {
	acc := &Accumulator{}
	return context.WithValue(ctx, accumulatorKey{}, acc), acc
}

// AccumulatorFrom returns the Accumulator carried by ctx, or nil
func AccumulatorFrom(ctx context.Context) *Accumulator {
	acc, _ := ctx.Value(accumulatorKey{}).(*Accumulator)
	return acc
}

// ReportDuration adds d to the Accumulator in ctx. It does nothing when ctx
// carries no Accumulator or the request has already finished.
func ReportDuration(ctx context.Context, d time.Duration) {
	if acc := AccumulatorFrom(ctx); acc != nil {
		acc.Add(d)
	}
}

// Add records d unless the Accumulator is inactive
func (a *Accumulator) Add(d time.Duration) {
	if a.closed.Load() {
		return
	}
	a.total.Add(int64(d))
}

// Total returns the sum of all durations added so far
func (a *Accumulator) Total() time.Duration {
	return time.Duration(a.total.Load())
}

// Active reports whether the Accumulator still accepts durations
func (a *Accumulator) Active() bool {
	return !a.closed.Load()
}

// Finish deactivates the Accumulator; later reports are dropped
func (a *Accumulator) Finish() {
	a.closed.Store(true)
}
