// Package metrics defines the observability interfaces used by the delay,
// lifecycle and router packages, plus the process-wide Prometheus registry.
//
// Every interface is optional: components accept nil and skip recording.
// Concrete Prometheus implementations live in pkg/metrics/prometheus and are
// hooked in through the Register*Constructor functions, which keeps this
// package free of an import cycle. Import it for side effects:
//
//	import _ "github.com/marmos91/essentials/pkg/metrics/prometheus"
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the registry with Go runtime and process collectors.
// Calling it again replaces the registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mu.Lock()
	registry = reg
	mu.Unlock()
	return reg
}

// Reset drops the registry, disabling metrics.
func Reset() {
	mu.Lock()
	registry = nil
	mu.Unlock()
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the registry, or nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// cached memoizes one collector set per registry. promauto panics when the
// same metric is registered twice, so constructors must only run once for a
// given registry.
type cached[T any] struct {
	mu  sync.Mutex
	reg *prometheus.Registry
	val T
}

func (c *cached[T]) get(build func() T) T {
	reg := GetRegistry()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reg != reg {
		c.reg = reg
		c.val = build()
	}
	return c.val
}
