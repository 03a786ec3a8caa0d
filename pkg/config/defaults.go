package config

import (
	"strings"
	"time"
)

// Built-in defaults for the ambient settings. Component defaults live with
// the components (delay, lifecycle, router).
const (
	defaultLogLevel         = "INFO"
	defaultLogFormat        = "text"
	defaultLogOutput        = "stdout"
	defaultOTLPEndpoint     = "localhost:4317"
	defaultSampleRate       = 1.0
	defaultPyroscopeURL     = "http://localhost:4040"
	defaultMetricsPort      = 9090
	defaultShutdownDuration = 30 * time.Second
)

// defaultProfileTypes is every profile type the profiler understands.
var defaultProfileTypes = []string{
	"cpu",
	"alloc_objects",
	"alloc_space",
	"inuse_objects",
	"inuse_space",
	"goroutines",
}

// ApplyDefaults fills every zero field of cfg. Set fields are kept, except
// the log level which is upper-cased.
func ApplyDefaults(cfg *Config) {
	setString(&cfg.Logging.Level, defaultLogLevel)
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	setString(&cfg.Logging.Format, defaultLogFormat)
	setString(&cfg.Logging.Output, defaultLogOutput)

	setString(&cfg.Telemetry.Endpoint, defaultOTLPEndpoint)
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = defaultSampleRate
	}
	setString(&cfg.Telemetry.Profiling.Endpoint, defaultPyroscopeURL)
	if len(cfg.Telemetry.Profiling.ProfileTypes) == 0 {
		cfg.Telemetry.Profiling.ProfileTypes = append([]string(nil), defaultProfileTypes...)
	}

	// The metrics port only matters once metrics are on.
	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = defaultMetricsPort
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownDuration
	}

	cfg.Delay.ApplyDefaults()
	cfg.Files.ApplyDefaults()
	cfg.Server.ApplyDefaults()
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// GetDefaultConfig returns the configuration used when there is no file and
// no environment override.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{Insecure: true},
	}
	ApplyDefaults(cfg)
	return cfg
}
