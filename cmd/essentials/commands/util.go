package commands

import (
	"context"
	"fmt"

	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/internal/telemetry"
	"github.com/marmos91/essentials/pkg/config"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/essentials/pkg/metrics/prometheus"
)

// environment is the process-wide state shared by the run commands.
type environment struct {
	cfg     *config.Config
	loader  *config.Loader
	metrics config.MetricsResult

	stopTracing   func(context.Context) error
	stopProfiling func() error
}

// setup loads configuration and initializes logging, tracing, profiling and
// the metrics registry. The caller must call close.
func setup(ctx context.Context) (*environment, error) {
	loader := config.NewLoader(GetConfigFile())
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if err := InitLogger(cfg); err != nil {
		return nil, err
	}

	stopTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "essentials",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	stopProfiling, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "essentials",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		_ = stopTracing(context.Background())
		return nil, fmt.Errorf("failed to initialize profiling: %w", err)
	}

	source := "defaults"
	if path, found := loader.ConfigFile(); found {
		source = path
	}
	logger.Debug("Configuration loaded", "source", source, "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	}

	return &environment{
		cfg:           cfg,
		loader:        loader,
		metrics:       config.InitializeMetrics(cfg),
		stopTracing:   stopTracing,
		stopProfiling: stopProfiling,
	}, nil
}

// close flushes traces and stops the profiler, bounded by the configured
// shutdown timeout.
func (e *environment) close() {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout)
	defer cancel()

	if err := e.stopTracing(ctx); err != nil {
		logger.Error("Telemetry shutdown error", logger.KeyError, err)
	}
	if err := e.stopProfiling(); err != nil {
		logger.Error("Profiling shutdown error", logger.KeyError, err)
	}
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
