// Package requestlog wraps request handling to emit one structured record per
// request: path, redacted params, method, status, total time and the time
// spent in database queries while the request ran.
package requestlog

import (
	"context"
	"strings"
	"time"

	"request-logger/internal/notify"
)

// QueryEvent is the only notification the RequestLogger listens to
const QueryEvent = "sql.query"

// NextFunc is the downstream handler wrapped by the RequestLogger
type NextFunc func(ctx context.Context, req Request) (Response, error)

// Notifications is the subscription side of an event bus such as notify.Bus.
// Subscribe returns a func that removes the listener again.
type Notifications interface {
	Subscribe(name string, fn notify.Listener) (unsubscribe func())
}

// Options configures a RequestLogger. Zero values fall back to defaults.
type Options struct {
	Sink             Sink          // default: logrus JSON to stdout
	ObfuscatedParams []string      // top-level param keys replaced by Mask
	IgnoredMethods   []string      // methods that never produce a record
	Notifications    Notifications // optional source of QueryEvent durations
	Clock            func() time.Time
}

// RequestLogger times requests and hands one Record per request to its Sink
type RequestLogger struct {
	sink             Sink
	obfuscatedParams []string
	ignoredMethods   map[string]struct{}
	clock            func() time.Time
	unsubscribe      func()
}

// New builds a RequestLogger and, when a notification source is given,
// subscribes it to QueryEvent
func New(opts Options) *RequestLogger {
	rl := &RequestLogger{
		sink:             opts.Sink,
		obfuscatedParams: append([]string(nil), opts.ObfuscatedParams...),
		ignoredMethods:   make(map[string]struct{}, len(opts.IgnoredMethods)),
		clock:            opts.Clock,
	}
	if rl.sink == nil {
		rl.sink = NewLogrusSink(nil)
	}
	if rl.clock == nil {
		rl.clock = time.Now
	}
	for _, m := range opts.IgnoredMethods {
		rl.ignoredMethods[strings.ToUpper(m)] = struct{}{}
	}

	if opts.Notifications != nil {
		rl.unsubscribe = opts.Notifications.Subscribe(QueryEvent, func(ctx context.Context, ev notify.Event) {
			if acc := AccumulatorFrom(ctx); acc != nil && acc.owner == rl {
				acc.Add(ev.Duration)
			}
		})
	}

	return rl
}

// Close detaches rl from its notification source. Loggers rebuilt on a
// long-lived bus should close the one they replace. Requests handled after
// Close still log, with db 0.
func (rl *RequestLogger) Close() {
	if rl.unsubscribe != nil {
		rl.unsubscribe()
	}
}

// Handle runs next with a fresh Accumulator in its context and logs the
// outcome. A failing next is returned untouched and produces no record. The
// Accumulator is deactivated on every path, including panics.
func (rl *RequestLogger) Handle(ctx context.Context, req Request, next NextFunc) (Response, error) {
	ctx, acc := WithAccumulator(ctx)
	acc.owner = rl
	defer acc.Finish()

	start := rl.clock()

	resp, err := next(ctx, req)
	if err != nil {
		return resp, err
	}

	total := rl.clock().Sub(start)

	if !rl.Ignored(req.Method) {
		rl.sink.Log(ctx, rl.record(req, resp, total, acc.Total()))
	}

	return resp, nil
}

// Ignored reports whether requests with method are skipped
func (rl *RequestLogger) Ignored(method string) bool {
	_, ok := rl.ignoredMethods[strings.ToUpper(method)]
	return ok
}

func (rl *RequestLogger) record(req Request, resp Response, total, db time.Duration) Record {
	status := 0
	if resp != nil {
		status = resp.Status()
	}
	if total < 0 {
		total = 0
	}

	return Record{
		Path:   req.Path,
		Params: obfuscate(req.Params, rl.obfuscatedParams),
		Method: req.Method,
		Total:  milliseconds(total),
		DB:     milliseconds(db),
		Status: status,
	}
}
