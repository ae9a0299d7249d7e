package cachemap

import (
	"context"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// Config is optional configuration for New and NewSync.
type Config struct {
	// Name is cache instance name, used in stats and logging.
	Name string

	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker

	// EvictFailed removes an entry once its computation fails, so that the
	// next caller starts a fresh computation. Waiters that already hold the
	// failed entry still observe its error. Default is to keep failed
	// entries, every later caller for the key receives the same error.
	EvictFailed bool
}

// trait carries shared instrumentation of cache instances.
type trait struct {
	config Config
	log    ctxd.Logger
	stat   stats.Tracker
}

func newTrait(cfg ...Config) *trait {
	config := Config{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	t := &trait{
		config: config,
		log:    config.Logger,
		stat:   config.Stats,
	}

	if t.log == nil {
		t.log = ctxd.NoOpLogger{}
	}

	if t.stat == nil {
		t.stat = stats.NoOp{}
	}

	return t
}

func (t *trait) notifyMiss(ctx context.Context, key interface{}) {
	t.log.Debug(ctx, "cache miss, starting computation",
		"name", t.config.Name,
		"key", key)
	t.stat.Add(ctx, MetricMiss, 1, "name", t.config.Name)
}

func (t *trait) notifyShared(ctx context.Context, key interface{}, settled bool) {
	if settled {
		t.log.Debug(ctx, "cache hit",
			"name", t.config.Name,
			"key", key)
		t.stat.Add(ctx, MetricHit, 1, "name", t.config.Name)

		return
	}

	t.log.Debug(ctx, "attached to in-flight computation",
		"name", t.config.Name,
		"key", key)
	t.stat.Add(ctx, MetricCoalesced, 1, "name", t.config.Name)
}

// build runs compute and settles d with its outcome.
//
// It is invoked in a goroutine of its own, after d is already registered, so
// it never delays another caller's lookup. The forget callback removes the
// entry when Config.EvictFailed is set; removal happens after the failure is
// published, existing waiters are not left pending.
func build[K comparable, V any](
	ctx context.Context,
	t *trait,
	key K,
	d *Deferred[V],
	compute func(ctx context.Context) (V, error),
	forget func(key K, d *Deferred[V]),
) {
	val, err := compute(ctx)
	if err != nil {
		d.Fail(err)
		t.stat.Add(ctx, MetricFailed, 1, "name", t.config.Name)
		t.log.Warn(ctx, "failed to compute cache value",
			"error", err,
			"name", t.config.Name,
			"key", key)

		if t.config.EvictFailed {
			forget(key, d)
			t.stat.Add(ctx, MetricEvict, 1, "name", t.config.Name)
		}

		return
	}

	d.Resolve(val)
	t.stat.Add(ctx, MetricBuild, 1, "name", t.config.Name)
}
