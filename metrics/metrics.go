package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// AttemptsTotal counts settled attempts by outcome
	// (scored, won, invalid_input, insufficient_cp, stale_block)
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cracker_attempts_total",
			Help: "Total number of submitted attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ArbitrationLost counts perfect-score attempts that lost the winner race
	ArbitrationLost = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cracker_arbitration_lost_total",
			Help: "Total number of 100% attempts beaten to the claim",
		},
	)

	// BlocksSolved counts blocks that found a winner
	BlocksSolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cracker_blocks_solved_total",
			Help: "Total number of solved blocks",
		},
	)

	// HintWindowExpired counts hint windows that timed out without a hint
	HintWindowExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cracker_hint_window_expired_total",
			Help: "Total number of hint windows closed by timeout",
		},
	)

	// WebsocketConnections tracks live viewers per block
	WebsocketConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cracker_websocket_connections",
			Help: "Number of live websocket viewers per block",
		},
		[]string{"block_id"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cracker_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"ip"},
	)

	// DatabaseOperationDuration measures database operation duration
	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cracker_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// CacheHits counts ranking cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cracker_cache_hits_total",
			Help: "Total number of ranking cache hits",
		},
	)

	// CacheMisses counts ranking cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cracker_cache_misses_total",
			Help: "Total number of ranking cache misses",
		},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cracker_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cracker_goroutine_count",
			Help: "Number of goroutines",
		},
	)
)

// RecordDBOperation records the duration of a database operation
func RecordDBOperation(operation string, table string, startTime time.Time) {
	duration := time.Since(startTime).Seconds()
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration)
}
