// Package prometheus provides the Prometheus implementations of the
// interfaces in pkg/metrics. Importing it registers the constructors.
package prometheus

import "github.com/marmos91/essentials/pkg/metrics"

func init() {
	metrics.RegisterFetchMetricsConstructor(func() metrics.FetchMetrics { return NewFetchMetrics() })
	metrics.RegisterPipelineMetricsConstructor(func() metrics.PipelineMetrics { return NewPipelineMetrics() })
	metrics.RegisterHTTPMetricsConstructor(func() metrics.HTTPMetrics { return NewHTTPMetrics() })
}
