package logger

import (
	"context"
	"time"
)

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds fields that are attached to every *Ctx log call.
type LogContext struct {
	TraceID   string
	SpanID    string
	RunID     string // file pipeline run
	Stage     string // pipeline stage name
	RequestID string // HTTP request ID
	StartTime time.Time
}

// NewLogContext returns a LogContext for the given run ID.
func NewLogContext(runID string) *LogContext {
	return &LogContext{RunID: runID, StartTime: time.Now()}
}

// WithContext returns ctx carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext returns the LogContext in ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// Clone returns a copy of lc.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithStage returns a copy with Stage set.
func (lc *LogContext) WithStage(stage string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.Stage = stage
	}
	return c
}

// WithTrace returns a copy with trace info set.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.TraceID = traceID
		c.SpanID = spanID
	}
	return c
}

// DurationMs returns the time since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return Duration(lc.StartTime)
}
