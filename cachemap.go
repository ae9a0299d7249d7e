package cachemap

import (
	"context"
	"sync"
)

// Cache coalesces concurrent computations per key.
//
// Entries live for the lifetime of the cache, there is no expiry. Please use
// New to create an instance.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex // Securing flights.
	flights map[K]*Deferred[V]

	*trait
}

// New creates a Cache instance with optional configuration.
func New[K comparable, V any](cfg ...Config) *Cache[K, V] {
	c := &Cache[K, V]{
		flights: make(map[K]*Deferred[V]),
	}
	c.trait = newTrait(cfg...)

	return c
}

// GetOrCompute returns the handle for key, starting a computation if there is
// none yet.
//
// The membership check and the registration of a new pending handle happen in
// a single critical section, so concurrent callers for the same key can not
// both observe a miss: exactly one of them starts compute, the rest share its
// handle. If an entry already exists, pending or settled, the stored handle
// is returned unchanged.
//
// The computation runs in its own goroutine on a context that keeps values of
// ctx but not its cancellation, a caller abandoning its handle does not
// affect other waiters.
func (c *Cache[K, V]) GetOrCompute(ctx context.Context, key K, compute func(ctx context.Context) (V, error)) *Deferred[V] {
	c.mu.Lock()

	if d, ok := c.flights[key]; ok {
		c.mu.Unlock()

		_, _, settled := d.Poll()
		c.notifyShared(ctx, key, settled)

		return d
	}

	d := NewDeferred[V]()
	c.flights[key] = d
	c.mu.Unlock()

	c.notifyMiss(ctx, key)

	go build(detachedContext{ctx}, c.trait, key, d, compute, c.forgetFlight)

	return d
}

// Get returns the value for key, starting a computation if there is none and
// waiting for its outcome.
//
// Concurrent callers for the same key share a single invocation of compute
// and receive the same result. A ctx cancellation releases this caller only.
func (c *Cache[K, V]) Get(ctx context.Context, key K, compute func(ctx context.Context) (V, error)) (V, error) {
	return c.GetOrCompute(ctx, key, compute).Wait(ctx)
}

// Peek returns the stored handle for key without starting a computation.
func (c *Cache[K, V]) Peek(key K) (*Deferred[V], bool) {
	c.mu.Lock()
	d, ok := c.flights[key]
	c.mu.Unlock()

	return d, ok
}

// Forget removes the entry for key, a subsequent GetOrCompute starts a fresh
// computation. An in-flight computation is not cancelled, its waiters still
// receive the outcome.
func (c *Cache[K, V]) Forget(key K) {
	c.mu.Lock()
	delete(c.flights, key)
	c.mu.Unlock()
}

// forgetFlight removes the entry only if it still holds d, a newer entry
// registered after an external Forget is left intact.
func (c *Cache[K, V]) forgetFlight(key K, d *Deferred[V]) {
	c.mu.Lock()
	if cur, ok := c.flights[key]; ok && cur == d {
		delete(c.flights, key)
	}
	c.mu.Unlock()
}

// Reset removes all entries.
func (c *Cache[K, V]) Reset() {
	c.mu.Lock()
	c.flights = make(map[K]*Deferred[V])
	c.mu.Unlock()
}

// Len returns the number of entries, including pending ones.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	cnt := len(c.flights)
	c.mu.Unlock()

	return cnt
}
