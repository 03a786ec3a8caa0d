package router

import "time"

// Config configures the HTTP server.
type Config struct {
	// Port is the TCP port to listen on. AnyPort (-1) picks a free port.
	// Default: 3000
	Port int `mapstructure:"port" validate:"gte=-1,lte=65535" yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 10s
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"gte=0" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Default: 10s
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0" yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next keep-alive request.
	// Default: 60s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"gte=0" yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown once Start's context ends.
	// Default: 5s
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0" yaml:"shutdown_timeout"`
}

const (
	// DefaultPort is the port the router listens on when none is configured.
	DefaultPort = 3000

	// AnyPort asks the kernel for a free port. Server.Port reports the
	// chosen one once listening.
	AnyPort = -1
)

// ApplyDefaults fills zero values. A zero Port becomes DefaultPort.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}
