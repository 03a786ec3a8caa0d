package delay

import "time"

const (
	// DefaultDelay is how long FetchData takes to settle.
	DefaultDelay = 2 * time.Second

	// DefaultPayload is the value FetchData resolves with.
	DefaultPayload = "Data fetched successfully!"
)

// Config configures a Fetcher.
type Config struct {
	// Delay is the wall-clock time before a fetch settles.
	// Default: 2s
	Delay time.Duration `mapstructure:"delay" validate:"gte=0" yaml:"delay"`

	// Payload is the fulfilment value.
	// Default: "Data fetched successfully!"
	Payload string `mapstructure:"payload" yaml:"payload"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Delay == 0 {
		c.Delay = DefaultDelay
	}
	if c.Payload == "" {
		c.Payload = DefaultPayload
	}
}
