package metrics

import "time"

// FetchMetrics records deferred fetch outcomes.
type FetchMetrics interface {
	// RecordFetch records a settled fetch. outcome is "fulfilled" or "rejected".
	RecordFetch(outcome string, waited time.Duration)

	// SetPending sets the number of unsettled handles.
	SetPending(n int)
}

var (
	newFetchMetrics    func() FetchMetrics
	cachedFetchMetrics cached[FetchMetrics]
)

// RegisterFetchMetricsConstructor is called by the prometheus package.
func RegisterFetchMetricsConstructor(fn func() FetchMetrics) {
	newFetchMetrics = fn
}

// NewFetchMetrics returns nil unless metrics are enabled and an
// implementation is registered.
func NewFetchMetrics() FetchMetrics {
	if !IsEnabled() || newFetchMetrics == nil {
		return nil
	}
	return cachedFetchMetrics.get(newFetchMetrics)
}
