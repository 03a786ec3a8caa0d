package config

import (
	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/pkg/metrics"
)

// MetricsResult holds what InitializeMetrics set up.
type MetricsResult struct {
	// Server exposes /metrics. nil when metrics are disabled.
	Server *metrics.Server
}

// InitializeMetrics creates the registry and metrics server when metrics
// are enabled, and resets the registry otherwise so the metric
// constructors return nil.
func InitializeMetrics(cfg *Config) MetricsResult {
	if !cfg.Metrics.Enabled {
		metrics.Reset()
		return MetricsResult{}
	}

	reg := metrics.InitRegistry()
	logger.Debug("Metrics registry initialized", logger.KeyPort, cfg.Metrics.Port)
	return MetricsResult{Server: metrics.NewServer(cfg.Metrics.Port, reg)}
}
