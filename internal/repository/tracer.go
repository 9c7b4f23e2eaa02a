package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"request-logger/internal/notify"
)

type queryStartKey struct{}

// QueryTracer implements pgx.QueryTracer and publishes a QueryEvent with the
// duration of every query. pgx hands the caller's context to both hooks, so
// listeners see the request context the query ran under.
type QueryTracer struct {
	bus *notify.Bus
	now func() time.Time
}

var _ pgx.QueryTracer = (*QueryTracer)(nil)

// NewQueryTracer creates a tracer publishing on bus
func NewQueryTracer(bus *notify.Bus) *QueryTracer {
	return &QueryTracer{bus: bus, now: time.Now}
}

// TraceQueryStart stamps the start time into the query context
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, t.now())
}

// TraceQueryEnd publishes the elapsed time since TraceQueryStart
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}

	payload := map[string]any{"command": data.CommandTag.String()}
	if data.Err != nil {
		payload["error"] = data.Err.Error()
	}

	t.bus.Publish(ctx, notify.Event{
		Name:     QueryEvent,
		Start:    start,
		Duration: t.now().Sub(start),
		Payload:  payload,
	})
}
