// Package lifecycle drives a single file through an ordered list of
// stages: write, read, append and delete by default.
//
// Stages run strictly one after another. The first failure is logged by the
// stage itself and ends the run; later stages are reported as skipped and
// have no side effects. There is no retry and no rollback, so a failed
// append leaves the written file behind.
package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/internal/telemetry"
	"github.com/marmos91/essentials/pkg/metrics"
)

// Pipeline runs stages against one path.
type Pipeline struct {
	fs      afero.Fs
	path    string
	stages  []Stage
	metrics metrics.PipelineMetrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics sets the metrics sink. nil disables recording.
func WithMetrics(m metrics.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// NewPipeline creates a pipeline over fs. The stage slice is copied.
func NewPipeline(fs afero.Fs, path string, stages []Stage, opts ...Option) *Pipeline {
	p := &Pipeline{
		fs:     fs,
		path:   path,
		stages: append([]Stage(nil), stages...),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New creates the default write/read/append/delete pipeline for cfg.
func New(fs afero.Fs, cfg Config, opts ...Option) *Pipeline {
	cfg.ApplyDefaults()
	return NewPipeline(fs, cfg.Path, DefaultStages(cfg), opts...)
}

// Path returns the file path the pipeline operates on.
func (p *Pipeline) Path() string {
	return p.path
}

// Run executes the stages in order and stops at the first failure. It never
// returns nil; use Report.Err for the failure.
//
// A stage that has started always runs to completion. If ctx is done
// before a stage starts, that stage fails with ctx's error.
func (p *Pipeline) Run(ctx context.Context) *Report {
	start := time.Now()
	runID := uuid.NewString()

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanPipelineRun,
		trace.WithAttributes(telemetry.RunID(runID), telemetry.Path(p.path)))
	defer span.End()

	lc := logger.NewLogContext(runID).WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	ctx = logger.WithContext(ctx, lc)

	report := &Report{
		RunID:   runID,
		Path:    p.path,
		Results: make([]StageResult, len(p.stages)),
	}
	rec := &Record{Path: p.path}

	logger.DebugCtx(ctx, "Pipeline started", logger.Path(p.path), "stages", len(p.stages))

	var failed bool
	for i, stage := range p.stages {
		res := &report.Results[i]
		res.Stage = stage.Name()

		if failed {
			res.Status = StatusSkipped
			p.recordStage(res)
			continue
		}

		res.Duration, res.Error = p.runStage(logger.WithContext(ctx, lc.WithStage(res.Stage)), stage, rec)
		if res.Error != nil {
			res.Status = StatusFailed
			failed = true
		} else {
			res.Status = StatusSucceeded
		}
		p.recordStage(res)
	}

	report.Duration = time.Since(start)
	if p.metrics != nil {
		p.metrics.RecordRun(!failed, report.Duration)
	}

	if failed {
		err := report.Err()
		telemetry.RecordError(ctx, err)
		logger.DebugCtx(ctx, "Pipeline stopped", logger.Err(err), logger.DurationMs(report.Duration))
	} else {
		logger.DebugCtx(ctx, "Pipeline completed", logger.DurationMs(report.Duration))
	}
	return report
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, rec *Record) (time.Duration, error) {
	name := stage.Name()
	if err := ctx.Err(); err != nil {
		logger.WarnCtx(ctx, "Pipeline cancelled", logger.Err(err))
		return 0, &StageError{Stage: name, Path: rec.Path, Err: err}
	}

	ctx, span := telemetry.StartStageSpan(ctx, name, rec.Path)
	defer span.End()

	start := time.Now()
	rec.Transferred = 0
	err := stage.Run(ctx, p.fs, rec)
	elapsed := time.Since(start)

	if err != nil {
		telemetry.RecordError(ctx, err)
		return elapsed, &StageError{Stage: name, Path: rec.Path, Err: err}
	}

	telemetry.SetAttributes(ctx, telemetry.Size(rec.Transferred))
	if p.metrics != nil && rec.Transferred > 0 {
		p.metrics.RecordBytes(name, rec.Transferred)
	}
	return elapsed, nil
}

func (p *Pipeline) recordStage(res *StageResult) {
	if p.metrics != nil {
		p.metrics.RecordStage(res.Stage, string(res.Status), res.Duration)
	}
}
