package logger

import (
	"log/slog"
	"time"
)

// Field keys shared by all log statements.
const (
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	KeyRunID   = "run_id"
	KeyStage   = "stage"
	KeyPath    = "path"
	KeyContent = "content"
	KeySize    = "size"

	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyRoute      = "route"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"

	KeyPayload    = "payload"
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyPort       = "port"
)

// Err returns an error attribute. A nil error yields an empty attribute,
// which the handlers skip.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Path returns a path attribute.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Stage returns a stage attribute.
func Stage(name string) slog.Attr {
	return slog.String(KeyStage, name)
}

// DurationMs returns a duration attribute in milliseconds.
func DurationMs(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMs, float64(d.Microseconds())/1000.0)
}
