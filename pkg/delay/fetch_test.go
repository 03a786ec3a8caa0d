package delay

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/pkg/metrics"
	_ "github.com/marmos91/essentials/pkg/metrics/prometheus"
)

const testDelay = 30 * time.Millisecond

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogs(t *testing.T) *lockedBuffer {
	t.Helper()
	buf := &lockedBuffer{}
	logger.InitWithWriter(buf, "INFO", "text", false)
	t.Cleanup(func() {
		logger.InitWithWriter(os.Stdout, "INFO", "text", false)
	})
	return buf
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher(Config{}, nil)
	assert.Equal(t, DefaultDelay, f.Delay())
	assert.Equal(t, DefaultPayload, f.payload)
}

func TestFetchData_ResolvesAfterDelay(t *testing.T) {
	f := NewFetcher(Config{Delay: testDelay}, nil)

	start := time.Now()
	d := f.FetchData()
	assert.False(t, d.Settled())
	assert.Equal(t, 1, f.Pending())

	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Data fetched successfully!", v)
	assert.GreaterOrEqual(t, time.Since(start), testDelay)
	assert.Equal(t, 0, f.Pending())
}

func TestFetchData_TimerSurvivesAbandonedWait(t *testing.T) {
	f := NewFetcher(Config{Delay: testDelay}, nil)
	d := f.FetchData()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("handle never settled")
	}
	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPayload, v)
}

func TestGetData_LogsPayload(t *testing.T) {
	buf := captureLogs(t)
	f := NewFetcher(Config{Delay: testDelay}, nil)

	v, err := f.GetData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPayload, v)

	out := buf.String()
	assert.Contains(t, out, "Fetching data...")
	assert.Contains(t, out, "Data fetched successfully!")
	assert.Less(t, strings.Index(out, "Fetching data..."), strings.Index(out, "Data fetched successfully!"))
}

func TestGetData_LogsRejection(t *testing.T) {
	buf := captureLogs(t)
	f := NewFetcher(Config{Delay: testDelay}, nil)

	d := NewDeferred[string]()
	d.Reject(errors.New("upstream unavailable"))

	_, err := f.consume(context.Background(), d)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "Error fetching data")
	assert.Contains(t, out, "upstream unavailable")
	assert.NotContains(t, out, DefaultPayload)
}

func TestFetchAll_IndependentResolutions(t *testing.T) {
	f := NewFetcher(Config{Delay: testDelay}, nil)

	const n = 8
	start := time.Now()
	results, err := f.FetchAll(context.Background(), n)
	require.NoError(t, err)
	require.Len(t, results, n)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, DefaultPayload, r.Payload)
		assert.GreaterOrEqual(t, r.Elapsed, testDelay)
	}
	// Fetches overlap rather than queueing behind each other.
	assert.Less(t, time.Since(start), time.Duration(n)*testDelay)
}

func TestFetchAll_Zero(t *testing.T) {
	f := NewFetcher(Config{Delay: testDelay}, nil)

	results, err := f.FetchAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFetchAll_Negative(t *testing.T) {
	f := NewFetcher(Config{Delay: testDelay}, nil)

	_, err := f.FetchAll(context.Background(), -1)
	assert.Error(t, err)
}

func TestFetchAll_ContextCancelled(t *testing.T) {
	f := NewFetcher(Config{Delay: time.Second}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), testDelay)
	defer cancel()

	_, err := f.FetchAll(ctx, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Let the abandoned timers fire before the leak check.
	require.Eventually(t, func() bool { return f.Pending() == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestFetcher_Metrics(t *testing.T) {
	reg := metrics.InitRegistry()
	t.Cleanup(metrics.Reset)
	m := metrics.NewFetchMetrics()
	require.NotNil(t, m)

	f := NewFetcher(Config{Delay: testDelay}, m)
	_, err := f.FetchAll(context.Background(), 3)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "essentials_delay_fetches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		switch mf.GetName() {
		case "essentials_delay_fetches_total":
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
		case "essentials_delay_pending":
			assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}
