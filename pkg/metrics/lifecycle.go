package metrics

import "time"

// PipelineMetrics records file pipeline activity.
type PipelineMetrics interface {
	// RecordStage records one stage execution. status is "succeeded",
	// "failed" or "skipped"; duration is zero for skipped stages.
	RecordStage(stage, status string, duration time.Duration)

	// RecordRun records a completed run and whether every stage succeeded.
	RecordRun(succeeded bool, duration time.Duration)

	// RecordBytes records bytes moved by a stage ("write", "read", "append").
	RecordBytes(stage string, n int)
}

var (
	newPipelineMetrics    func() PipelineMetrics
	cachedPipelineMetrics cached[PipelineMetrics]
)

// RegisterPipelineMetricsConstructor is called by the prometheus package.
func RegisterPipelineMetricsConstructor(fn func() PipelineMetrics) {
	newPipelineMetrics = fn
}

// NewPipelineMetrics returns nil unless metrics are enabled and an
// implementation is registered.
func NewPipelineMetrics() PipelineMetrics {
	if !IsEnabled() || newPipelineMetrics == nil {
		return nil
	}
	return cachedPipelineMetrics.get(newPipelineMetrics)
}
