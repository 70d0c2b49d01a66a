package warmer

const (
	// Warm up job emitted by scheduler and is in pending state.
	TopicPendingWarmUp = "topic.pending_warm_up"
	// Warm up job finished by runner, carries the result.
	TopicExecutedWarmUp = "topic.executed_warm_up"

	DdogWarmUpRunCounter   = "feed_warmer.warm_up.runs"
	DdogWarmUpItemCounter  = "feed_warmer.warm_up.items"
	DdogCacheSizeGauge     = "feed_warmer.cache.size"
	DdogWarmUpLatencyGauge = "feed_warmer.warm_up.latency_ms"
)
