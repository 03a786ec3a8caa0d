// Package delay simulates a slow asynchronous data source.
//
// FetchData hands back a Deferred that a timer fulfils after a fixed delay.
// GetData is the consumer: it waits for the handle and logs whichever
// outcome arrives. The timer is never cancelled.
package delay

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/internal/telemetry"
	"github.com/marmos91/essentials/pkg/metrics"
)

// Fetcher produces deferred results.
type Fetcher struct {
	delay   time.Duration
	payload string
	metrics metrics.FetchMetrics
	pending atomic.Int64
}

// Resolution is one settled fetch.
type Resolution struct {
	Index   int           `json:"index" yaml:"index"`
	Payload string        `json:"payload" yaml:"payload"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// NewFetcher creates a Fetcher. m may be nil.
func NewFetcher(cfg Config, m metrics.FetchMetrics) *Fetcher {
	cfg.ApplyDefaults()
	return &Fetcher{delay: cfg.Delay, payload: cfg.Payload, metrics: m}
}

// Delay returns the configured delay.
func (f *Fetcher) Delay() time.Duration {
	return f.delay
}

// Pending returns the number of handles not yet settled.
func (f *Fetcher) Pending() int {
	return int(f.pending.Load())
}

// FetchData returns a handle that is fulfilled with the payload once the
// delay has elapsed. Each call is independent.
func (f *Fetcher) FetchData() *Deferred[string] {
	d := NewDeferred[string]()
	start := time.Now()
	f.adjustPending(1)

	time.AfterFunc(f.delay, func() {
		f.adjustPending(-1)
		if f.metrics != nil {
			f.metrics.RecordFetch("fulfilled", time.Since(start))
		}
		d.Resolve(f.payload)
	})
	return d
}

func (f *Fetcher) adjustPending(delta int64) {
	n := f.pending.Add(delta)
	if f.metrics != nil {
		f.metrics.SetPending(int(n))
	}
}

// GetData fetches and waits, logging the payload on success and the error
// on failure. The outcome is also returned; it is never retried.
func (f *Fetcher) GetData(ctx context.Context) (string, error) {
	logger.InfoCtx(ctx, "Fetching data...")
	return f.consume(ctx, f.FetchData())
}

func (f *Fetcher) consume(ctx context.Context, d *Deferred[string]) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDelayFetch,
		trace.WithAttributes(attribute.Int64(telemetry.AttrDelay, f.delay.Milliseconds())))
	defer span.End()

	data, err := d.Await(ctx)
	if err != nil {
		telemetry.RecordError(ctx, err)
		telemetry.SetAttributes(ctx, telemetry.Outcome("rejected"))
		logger.ErrorCtx(ctx, "Error fetching data", logger.KeyError, err)
		return "", err
	}

	telemetry.SetAttributes(ctx, telemetry.Outcome("fulfilled"))
	logger.InfoCtx(ctx, data)
	return data, nil
}

// FetchAll issues n fetches concurrently and waits for all of them. Results
// are ordered by index. If ctx ends first, the outstanding waits are
// abandoned and ctx's error is returned.
func (f *Fetcher) FetchAll(ctx context.Context, n int) ([]Resolution, error) {
	if n < 0 {
		return nil, fmt.Errorf("fetch count must not be negative, got %d", n)
	}

	results := make([]Resolution, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			start := time.Now()
			payload, err := f.FetchData().Await(gctx)
			if err != nil {
				return fmt.Errorf("fetch %d: %w", i, err)
			}
			results[i] = Resolution{Index: i, Payload: payload, Elapsed: time.Since(start)}
			logger.DebugCtx(ctx, "Fetch settled", "index", i, logger.KeyDurationMs, logger.Duration(start))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
