package prometheus

import (
	"time"

	"github.com/marmos91/essentials/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type pipelineMetrics struct {
	stages        *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	bytes         *prometheus.CounterVec
}

// NewPipelineMetrics returns Prometheus pipeline metrics, or nil when the
// registry is not initialized.
func NewPipelineMetrics() *pipelineMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	f := promauto.With(metrics.GetRegistry())

	// Local filesystem calls: sub-millisecond to a few hundred ms.
	buckets := []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500}

	return &pipelineMetrics{
		stages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essentials_lifecycle_stages_total",
				Help: "File pipeline stage executions by stage and status",
			},
			[]string{"stage", "status"},
		),
		stageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "essentials_lifecycle_stage_duration_milliseconds",
				Help:    "Duration of executed file pipeline stages",
				Buckets: buckets,
			},
			[]string{"stage"},
		),
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essentials_lifecycle_runs_total",
				Help: "File pipeline runs by result",
			},
			[]string{"result"},
		),
		runDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "essentials_lifecycle_run_duration_milliseconds",
				Help:    "Duration of complete file pipeline runs",
				Buckets: buckets,
			},
		),
		bytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essentials_lifecycle_bytes_total",
				Help: "Bytes moved by file pipeline stages",
			},
			[]string{"stage"},
		),
	}
}

func (m *pipelineMetrics) RecordStage(stage, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage, status).Inc()
	if status != "skipped" {
		m.stageDuration.WithLabelValues(stage).Observe(ms(d))
	}
}

func (m *pipelineMetrics) RecordRun(succeeded bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "failed"
	if succeeded {
		result = "succeeded"
	}
	m.runs.WithLabelValues(result).Inc()
	m.runDuration.Observe(ms(d))
}

func (m *pipelineMetrics) RecordBytes(stage string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytes.WithLabelValues(stage).Add(float64(n))
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
