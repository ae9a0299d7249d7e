package cachemap

import (
	"context"
	"sync/atomic"
)

// Deferred is a handle to the eventual outcome of a computation.
//
// It is settled exactly once, by Resolve or Fail, and never mutated after
// that. Any number of waiters may observe it, before or after settlement, and
// all of them see the identical outcome.
type Deferred[V any] struct {
	settled atomic.Bool

	// val and err are written once before done is closed
	// and are only read after done is closed.
	val  V
	err  error
	done chan struct{}
}

// NewDeferred creates a pending Deferred.
func NewDeferred[V any]() *Deferred[V] {
	return &Deferred[V]{done: make(chan struct{})}
}

// Resolve settles d with a value and wakes all waiters.
// It reports whether d was still pending; a settled Deferred is not changed.
func (d *Deferred[V]) Resolve(val V) bool {
	if !d.settled.CompareAndSwap(false, true) {
		return false
	}

	d.val = val
	close(d.done)

	return true
}

// Fail settles d with an error and wakes all waiters.
// It reports whether d was still pending; a settled Deferred is not changed.
func (d *Deferred[V]) Fail(err error) bool {
	if !d.settled.CompareAndSwap(false, true) {
		return false
	}

	d.err = err
	close(d.done)

	return true
}

// Done returns a channel that is closed when d settles.
func (d *Deferred[V]) Done() <-chan struct{} {
	return d.done
}

// Wait blocks until d settles or ctx is done, whichever comes first.
//
// A context cancellation abandons this waiter only, it does not affect the
// underlying computation or any other waiter.
func (d *Deferred[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		var zero V

		return zero, ctx.Err()
	}
}

// Poll returns the outcome of d without blocking.
//
// Callers must check settled before val and err. Their value is meaningful
// only if settled is true. The err is not the last returned value because it
// would likely lead the reader to think that err must be checked before
// settled.
func (d *Deferred[V]) Poll() (val V, err error, settled bool) {
	select {
	case <-d.done:
		return d.val, d.err, true
	default:
		var zero V

		return zero, nil, false
	}
}
