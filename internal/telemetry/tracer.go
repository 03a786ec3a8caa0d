package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys.
const (
	AttrRunID     = "pipeline.run_id"
	AttrStage     = "pipeline.stage"
	AttrPath      = "fs.path"
	AttrSize      = "fs.size"
	AttrDelay     = "delay.duration_ms"
	AttrOutcome   = "outcome"
	AttrHTTPRoute = "http.route"
)

// Span names.
const (
	SpanPipelineRun = "lifecycle.run"
	SpanDelayFetch  = "delay.fetch"
)

// RunID returns a pipeline run ID attribute.
func RunID(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

// Stage returns a pipeline stage attribute.
func Stage(name string) attribute.KeyValue {
	return attribute.String(AttrStage, name)
}

// Path returns a file path attribute.
func Path(p string) attribute.KeyValue {
	return attribute.String(AttrPath, p)
}

// Size returns a byte size attribute.
func Size(n int) attribute.KeyValue {
	return attribute.Int(AttrSize, n)
}

// Outcome returns an outcome attribute ("fulfilled", "rejected", ...).
func Outcome(o string) attribute.KeyValue {
	return attribute.String(AttrOutcome, o)
}

// StartStageSpan starts a span named "lifecycle.<stage>".
func StartStageSpan(ctx context.Context, stage, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, "lifecycle."+stage, trace.WithAttributes(Stage(stage), Path(path)))
}
