package prometheus

import (
	"time"

	"github.com/marmos91/essentials/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type fetchMetrics struct {
	fetches *prometheus.CounterVec
	waited  prometheus.Histogram
	pending prometheus.Gauge
}

// NewFetchMetrics returns Prometheus fetch metrics, or nil when the registry
// is not initialized.
func NewFetchMetrics() *fetchMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	f := promauto.With(metrics.GetRegistry())

	return &fetchMetrics{
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essentials_delay_fetches_total",
				Help: "Total settled deferred fetches by outcome",
			},
			[]string{"outcome"},
		),
		waited: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "essentials_delay_wait_seconds",
				Help:    "Time from fetch start to settlement",
				Buckets: []float64{0.1, 0.5, 1, 2, 2.5, 5, 10},
			},
		),
		pending: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "essentials_delay_pending",
				Help: "Deferred handles not yet settled",
			},
		),
	}
}

func (m *fetchMetrics) RecordFetch(outcome string, waited time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	m.waited.Observe(waited.Seconds())
}

func (m *fetchMetrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}
