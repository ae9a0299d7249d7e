package cachemap

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// SyncCache is a Cache variant backed by a lock-free concurrent map.
//
// It offers the same coalescing contract with better read scalability under
// many cores; claiming the slot for a new computation relies on the map's
// atomic load-or-compute instead of a cache-wide mutex. Please use NewSync to
// create an instance.
type SyncCache[K comparable, V any] struct {
	flights *xsync.MapOf[K, *Deferred[V]]

	*trait
}

// NewSync creates a SyncCache instance with optional configuration.
func NewSync[K comparable, V any](cfg ...Config) *SyncCache[K, V] {
	c := &SyncCache[K, V]{
		flights: xsync.NewMapOf[K, *Deferred[V]](),
	}
	c.trait = newTrait(cfg...)

	return c
}

// GetOrCompute returns the handle for key, starting a computation if there is
// none yet. See Cache.GetOrCompute for the contract.
func (c *SyncCache[K, V]) GetOrCompute(ctx context.Context, key K, compute func(ctx context.Context) (V, error)) *Deferred[V] {
	// LoadOrCompute claims the map slot atomically, the value constructor
	// runs at most once per claim and must not block.
	d, loaded := c.flights.LoadOrCompute(key, func() *Deferred[V] {
		return NewDeferred[V]()
	})

	if loaded {
		_, _, settled := d.Poll()
		c.notifyShared(ctx, key, settled)

		return d
	}

	c.notifyMiss(ctx, key)

	go build(detachedContext{ctx}, c.trait, key, d, compute, c.forgetFlight)

	return d
}

// Get returns the value for key, starting a computation if there is none and
// waiting for its outcome. See Cache.Get for the contract.
func (c *SyncCache[K, V]) Get(ctx context.Context, key K, compute func(ctx context.Context) (V, error)) (V, error) {
	return c.GetOrCompute(ctx, key, compute).Wait(ctx)
}

// Peek returns the stored handle for key without starting a computation.
func (c *SyncCache[K, V]) Peek(key K) (*Deferred[V], bool) {
	return c.flights.Load(key)
}

// Forget removes the entry for key, a subsequent GetOrCompute starts a fresh
// computation. An in-flight computation is not cancelled, its waiters still
// receive the outcome.
func (c *SyncCache[K, V]) Forget(key K) {
	c.flights.Delete(key)
}

func (c *SyncCache[K, V]) forgetFlight(key K, d *Deferred[V]) {
	c.flights.Compute(key, func(cur *Deferred[V], loaded bool) (*Deferred[V], bool) {
		// Keep a newer entry registered after an external Forget.
		return cur, !loaded || cur == d
	})
}

// Reset removes all entries.
func (c *SyncCache[K, V]) Reset() {
	c.flights.Clear()
}

// Len returns the number of entries, including pending ones.
func (c *SyncCache[K, V]) Len() int {
	return c.flights.Size()
}
