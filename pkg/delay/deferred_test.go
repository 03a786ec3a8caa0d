package delay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_Resolve(t *testing.T) {
	d := NewDeferred[string]()
	assert.False(t, d.Settled())

	assert.True(t, d.Resolve("ok"))
	assert.True(t, d.Settled())

	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestDeferred_SettlesOnce(t *testing.T) {
	d := NewDeferred[int]()
	require.True(t, d.Resolve(1))

	assert.False(t, d.Resolve(2))
	assert.False(t, d.Reject(errors.New("late")))

	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestDeferred_Reject(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		boom := errors.New("boom")
		d := NewDeferred[string]()
		require.True(t, d.Reject(boom))

		v, err := d.Await(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, v)
	})

	t.Run("nil error", func(t *testing.T) {
		d := NewDeferred[string]()
		require.True(t, d.Reject(nil))

		_, err := d.Await(context.Background())
		assert.ErrorIs(t, err, ErrRejected)
	})
}

func TestDeferred_AwaitContextDone(t *testing.T) {
	d := NewDeferred[string]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := d.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Abandoning the wait leaves the handle usable.
	assert.False(t, d.Settled())
	require.True(t, d.Resolve("later"))
	v, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "later", v)
}

func TestDeferred_SettledBeforeCancelledContext(t *testing.T) {
	d := NewDeferred[string]()
	d.Resolve("ready")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := d.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}

func TestDeferred_ManyWaiters(t *testing.T) {
	d := NewDeferred[string]()

	const waiters = 16
	var wg sync.WaitGroup
	got := make([]string, waiters)
	for i := range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = d.Await(context.Background())
		}()
	}

	d.Resolve("shared")
	wg.Wait()

	for _, v := range got {
		assert.Equal(t, "shared", v)
	}
}

func TestDeferred_ConcurrentSettle(t *testing.T) {
	d := NewDeferred[int]()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Resolve(i) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	select {
	case <-d.Done():
	default:
		t.Fatal("Done channel not closed after settle")
	}
}
