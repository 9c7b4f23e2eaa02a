package requestlog

import (
	"math"
	"time"
)

// Mask replaces the value of every obfuscated parameter
const Mask = "***"

// Request describes the inbound request as seen by the RequestLogger
type Request struct {
	Path   string
	Method string
	Params map[string]any
}

// Response is anything that can report the HTTP status it produced
type Response interface {
	Status() int
}

// StatusResponse is a Response made of a bare status code
type StatusResponse int

// Status implements Response
func (s StatusResponse) Status() int { return int(s) }

// Record is the structured line emitted for one completed request
type Record struct {
	Path   string         `json:"path"`
	Params map[string]any `json:"params"`
	Method string         `json:"method"`
	Total  float64        `json:"total"`
	DB     float64        `json:"db"`
	Status int            `json:"status"`
}

// Fields returns the record as the fixed key mapping handed to loggers
func (r Record) Fields() map[string]any {
	return map[string]any{
		"path":   r.Path,
		"params": r.Params,
		"method": r.Method,
		"total":  r.Total,
		"db":     r.DB,
		"status": r.Status,
	}
}

// obfuscate shallow-copies params and masks every key in keys that is present.
// Nested values are copied by reference and never scanned.
func obfuscate(params map[string]any, keys []string) map[string]any {
	filtered := make(map[string]any, len(params))
	for k, v := range params {
		filtered[k] = v
	}
	for _, k := range keys {
		if _, ok := filtered[k]; ok {
			filtered[k] = Mask
		}
	}
	return filtered
}

// milliseconds converts d to milliseconds rounded to 2 decimal places
func milliseconds(d time.Duration) float64 {
	ms := d.Seconds() * 1000
	return math.Round(ms*100) / 100
}
