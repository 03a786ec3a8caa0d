package metrics

import "time"

// HTTPMetrics records router traffic.
type HTTPMetrics interface {
	// RecordRequest records a completed request. route is the matched
	// pattern, or "unmatched" when no route matched.
	RecordRequest(method, route string, status int, duration time.Duration)

	// InFlight adjusts the in-flight request gauge by delta.
	InFlight(delta int)
}

var (
	newHTTPMetrics    func() HTTPMetrics
	cachedHTTPMetrics cached[HTTPMetrics]
)

// RegisterHTTPMetricsConstructor is called by the prometheus package.
func RegisterHTTPMetricsConstructor(fn func() HTTPMetrics) {
	newHTTPMetrics = fn
}

// NewHTTPMetrics returns nil unless metrics are enabled and an
// implementation is registered.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() || newHTTPMetrics == nil {
		return nil
	}
	return cachedHTTPMetrics.get(newHTTPMetrics)
}
