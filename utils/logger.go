package utils

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// init sets up the process logger: JSON lines with ISO 8601 timestamps on stdout.
func init() {
	Configure(os.Stdout, "info")
}

// Configure redirects the process logger to w at the given level.
// Unknown levels fall back to info.
func Configure(w io.Writer, level string) {
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	log.SetOutput(w)

	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// Logger exposes the process logger, e.g. to back a request log sink
func Logger() *log.Logger {
	return log.StandardLogger()
}

// Debug logs a message at debug level with optional fields
func Debug(message string, fields map[string]any) {
	log.WithFields(fields).Debug(message)
}

// Info logs a message at info level with optional fields
func Info(message string, fields map[string]any) {
	log.WithFields(fields).Info(message)
}

// Warn logs a message at warning level with optional fields
func Warn(message string, fields map[string]any) {
	log.WithFields(fields).Warn(message)
}

// Error logs a message at error level with optional fields
func Error(message string, fields map[string]any) {
	log.WithFields(fields).Error(message)
}

// Fatal logs a message at fatal level and exits the application
func Fatal(message string, fields map[string]any) {
	log.WithFields(fields).Fatal(message)
}
