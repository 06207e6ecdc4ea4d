package monitoring

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"poap-system/utils"
)

var (
	writeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_write_operations_total",
			Help: "Write operations by kind and terminal outcome",
		},
		[]string{"kind", "outcome"},
	)

	inflightOperations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_inflight_operations",
			Help: "Write operations currently between validation and a terminal state",
		},
	)

	pollAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transaction_poll_attempts",
			Help:    "Status-poll attempts per submitted transaction",
			Buckets: prometheus.LinearBuckets(1, 1, 20),
		},
		[]string{"kind"},
	)

	confirmationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transaction_confirmation_seconds",
			Help:    "Time from submission to a definitive ledger answer",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		},
		[]string{"kind"},
	)

	goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_goroutines_total",
			Help: "Current number of active goroutines",
		},
	)

	redisUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "redis_up",
			Help: "Whether the rate-limiter redis responds to ping",
		},
	)
)

// RecordWriteOperation counts a write reaching a terminal state.
func RecordWriteOperation(kind, outcome string) {
	writeOperations.WithLabelValues(kind, outcome).Inc()
}

func IncInflight() { inflightOperations.Inc() }
func DecInflight() { inflightOperations.Dec() }

// ObserveConfirmation records how long and how many polls a submitted
// transaction took to reach a definitive answer (or exhaust the budget).
func ObserveConfirmation(kind string, attempts int, elapsed time.Duration) {
	pollAttempts.WithLabelValues(kind).Observe(float64(attempts))
	confirmationLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		goroutineCount.Set(float64(runtime.NumGoroutine()))

		if m.redis != nil {
			if err := utils.RedisHealthCheck(m.redis); err != nil {
				redisUp.Set(0)
			} else {
				redisUp.Set(1)
			}
		}
	}
}
