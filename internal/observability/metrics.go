package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bailemos_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bailemos_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EnrollmentSubmissions counts enrollment submissions by outcome.
	EnrollmentSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bailemos_enrollment_submissions_total",
		Help: "Enrollment submissions by outcome",
	}, []string{"outcome"})

	// EnrollmentTransitions counts reviewed enrollments by resulting status.
	EnrollmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bailemos_enrollment_transitions_total",
		Help: "Enrollment review transitions by target status",
	}, []string{"status"})

	// NotificationDeliveries counts notification attempts by channel, event and result.
	NotificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bailemos_notification_deliveries_total",
		Help: "Notification attempts by channel, event and result",
	}, []string{"channel", "event", "result"})

	// ArtifactBytes records the size of stored voucher artifacts.
	ArtifactBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bailemos_artifact_bytes",
		Help:    "Size of persisted voucher artifacts in bytes",
		Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
	})

	// RealtimeConnections is the gauge of open realtime sockets.
	RealtimeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bailemos_realtime_connections",
		Help: "Number of open realtime WebSocket connections",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordDelivery counts one notification attempt as sent, failed or skipped.
func RecordDelivery(channel, event string, sent bool, err error) {
	result := "skipped"
	switch {
	case err != nil:
		result = "failed"
	case sent:
		result = "sent"
	}
	NotificationDeliveries.WithLabelValues(channel, event, result).Inc()
}
