package perftests

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"request-logger/internal/notify"
	"request-logger/internal/requestlog"

	"github.com/gin-gonic/gin"
)

var discard = requestlog.SinkFunc(func(context.Context, requestlog.Record) {})

// Benchmark 1: Handle - Interceptor alone (Micro Benchmark)
func Benchmark_Handle(b *testing.B) {
	rl := requestlog.New(requestlog.Options{Sink: discard, ObfuscatedParams: []string{"password"}})
	req := requestlog.Request{
		Path:   "/users",
		Method: http.MethodGet,
		Params: map[string]any{"password": "secret", "name": "bob", "page": "2"},
	}
	next := func(ctx context.Context, _ requestlog.Request) (requestlog.Response, error) {
		requestlog.ReportDuration(ctx, time.Millisecond)
		return requestlog.StatusResponse(http.StatusOK), nil
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := rl.Handle(context.Background(), req, next); err != nil {
			b.Fatalf("handle failed: %v", err)
		}
	}
}

// Benchmark 2: Handle with query events published on a bus (Concurrency Benchmark)
func Benchmark_Handle_ParallelBus(b *testing.B) {
	bus := notify.NewBus()
	rl := requestlog.New(requestlog.Options{Sink: discard, Notifications: bus})
	req := requestlog.Request{Path: "/users", Method: http.MethodGet}
	next := func(ctx context.Context, _ requestlog.Request) (requestlog.Response, error) {
		for i := 0; i < 3; i++ {
			bus.Publish(ctx, notify.Event{Name: requestlog.QueryEvent, Duration: time.Millisecond})
		}
		return requestlog.StatusResponse(http.StatusOK), nil
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := rl.Handle(context.Background(), req, next); err != nil {
				b.Errorf("handle failed: %v", err)
				return
			}
		}
	})
}

// Benchmark 3: gin middleware vs bare router, per sink
func Benchmark_GinMiddleware(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)

	for _, kind := range []string{"none", "logrus", "zerolog", "zap"} {
		b.Run(kind, func(b *testing.B) {
			router := gin.New()
			if kind != "none" {
				sink, err := requestlog.NewSink(kind, io.Discard)
				if err != nil {
					b.Fatalf("failed to build sink: %v", err)
				}
				router.Use(requestlog.Gin(requestlog.New(requestlog.Options{Sink: sink, ObfuscatedParams: []string{"password"}})))
			}
			router.GET("/users/:user_id", func(c *gin.Context) { c.Status(http.StatusOK) })

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42?password=secret&name=bob", nil))
			}
		})
	}
}
