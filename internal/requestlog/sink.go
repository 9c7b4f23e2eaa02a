package requestlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Message is the log message every sink attaches to a Record
const Message = "request completed"

// Sink accepts one Record per logged request. Failures are the sink's concern.
type Sink interface {
	Log(ctx context.Context, rec Record)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, rec Record)

// Log implements Sink
func (f SinkFunc) Log(ctx context.Context, rec Record) { f(ctx, rec) }

// LogrusSink writes records through a logrus logger
type LogrusSink struct {
	logger *logrus.Logger
}

// NewLogrusSink wraps logger. A nil logger gets a JSON logger writing to stdout.
func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	if logger == nil {
		logger = newLogrusLogger(os.Stdout)
	}
	return &LogrusSink{logger: logger}
}

func newLogrusLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	logger.SetOutput(w)
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// Log implements Sink
func (s *LogrusSink) Log(ctx context.Context, rec Record) {
	s.logger.WithContext(ctx).WithFields(logrus.Fields(rec.Fields())).Info(Message)
}

// ZerologSink writes records through a zerolog logger
type ZerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink wraps logger
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

// Log implements Sink
func (s *ZerologSink) Log(_ context.Context, rec Record) {
	s.logger.Info().
		Str("path", rec.Path).
		Interface("params", rec.Params).
		Str("method", rec.Method).
		Float64("total", rec.Total).
		Float64("db", rec.DB).
		Int("status", rec.Status).
		Msg(Message)
}

// ZapSink writes records through a zap logger
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps logger
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Log implements Sink
func (s *ZapSink) Log(_ context.Context, rec Record) {
	s.logger.Info(Message,
		zap.String("path", rec.Path),
		zap.Any("params", rec.Params),
		zap.String("method", rec.Method),
		zap.Float64("total", rec.Total),
		zap.Float64("db", rec.DB),
		zap.Int("status", rec.Status),
	)
}

// NewSink builds a JSON sink of the given kind (logrus, zerolog or zap)
// writing to w
func NewSink(kind string, w io.Writer) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "logrus":
		return NewLogrusSink(newLogrusLogger(w)), nil
	case "zerolog":
		return NewZerologSink(zerolog.New(w).With().Timestamp().Logger()), nil
	case "zap":
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			zapcore.InfoLevel,
		)
		return NewZapSink(zap.New(core)), nil
	default:
		return nil, fmt.Errorf("requestlog: unknown sink %q", kind)
	}
}
