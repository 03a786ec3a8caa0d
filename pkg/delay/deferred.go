package delay

import (
	"context"
	"errors"
	"sync"
)

// ErrRejected is the error carried by a handle rejected with a nil error.
var ErrRejected = errors.New("deferred result rejected")

// Deferred is a result that becomes available later. It settles exactly
// once, either fulfilled with a value or rejected with an error, and never
// changes afterwards. Any number of goroutines may wait on it.
type Deferred[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewDeferred returns an unsettled handle.
func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{done: make(chan struct{})}
}

// Resolve fulfils the handle with v. It returns false if the handle was
// already settled, in which case v is discarded.
func (d *Deferred[T]) Resolve(v T) bool {
	return d.settle(v, nil)
}

// Reject settles the handle with err. A nil err is replaced by ErrRejected.
// It returns false if the handle was already settled.
func (d *Deferred[T]) Reject(err error) bool {
	if err == nil {
		err = ErrRejected
	}
	var zero T
	return d.settle(zero, err)
}

func (d *Deferred[T]) settle(v T, err error) bool {
	settled := false
	d.once.Do(func() {
		d.value, d.err = v, err
		close(d.done)
		settled = true
	})
	return settled
}

// Done is closed when the handle settles.
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// Settled reports whether the handle has settled.
func (d *Deferred[T]) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Await blocks until the handle settles or ctx is done. Giving up on ctx
// does not affect the handle; it still settles for other waiters.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.value, d.err
	default:
	}

	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
