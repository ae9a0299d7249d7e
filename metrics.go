package cachemap

// Metric names for stats.Tracker.
const (
	// MetricMiss is a counter of misses that started a computation.
	MetricMiss = "cache_miss"
	// MetricHit is a counter of hits on settled entries.
	MetricHit = "cache_hit"
	// MetricCoalesced is a counter of callers attached to an in-flight computation.
	MetricCoalesced = "cache_coalesced"
	// MetricBuild is a counter of successfully built values.
	MetricBuild = "cache_build"
	// MetricFailed is a counter of failed computations.
	MetricFailed = "cache_failed"
	// MetricEvict is a counter of entries evicted after a failure.
	MetricEvict = "cache_evict"
)
