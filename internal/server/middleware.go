package server

import (
	"os"

	"request-logger/internal/config"
	"request-logger/internal/notify"
	"request-logger/internal/requestlog"
	"request-logger/utils"
)

// NewRequestLogger builds the request logger described by cfg. Query timings
// published on bus are folded into each record's db field.
func NewRequestLogger(cfg config.RequestLogConfig, bus *notify.Bus) (*requestlog.RequestLogger, error) {
	var sink requestlog.Sink
	if cfg.Sink == "" || cfg.Sink == "logrus" {
		sink = requestlog.NewLogrusSink(utils.Logger())
	} else {
		var err error
		sink, err = requestlog.NewSink(cfg.Sink, os.Stdout)
		if err != nil {
			return nil, err
		}
	}

	opts := requestlog.Options{
		Sink:             sink,
		ObfuscatedParams: cfg.ObfuscatedParams,
		IgnoredMethods:   cfg.IgnoredMethods,
	}
	// a nil *notify.Bus stored in the interface would not compare equal to nil
	if bus != nil {
		opts.Notifications = bus
	}
	return requestlog.New(opts), nil
}
