package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	IssueCreatedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "issue_created_count",
			Help: "Total number of issues created",
		},
		[]string{"project_code"},
	)

	CodeAllocationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "issue_code_allocation_conflicts_total",
			Help: "Issue code inserts that hit the unique index and were re-allocated",
		},
	)

	EventPublishedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_published_count",
			Help: "Total number of domain events published",
		},
		[]string{"routing_key", "status"}, // status: success, failed
	)

	EventConsumedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_consumed_count",
			Help: "Total number of domain events consumed by the worker",
		},
		[]string{"routing_key", "status"}, // status: success, failed, duplicate
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func IncrementIssueCreated(projectCode string) {
	IssueCreatedCount.WithLabelValues(projectCode).Inc()
}

func IncrementAllocationConflict() {
	CodeAllocationConflicts.Inc()
}

func IncrementEventPublished(routingKey, status string) {
	EventPublishedCount.WithLabelValues(routingKey, status).Inc()
}

func IncrementEventConsumed(routingKey, status string) {
	EventConsumedCount.WithLabelValues(routingKey, status).Inc()
}
