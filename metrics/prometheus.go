package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "api",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "api",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sync",
			Name:      "webhook_events_total",
			Help:      "Webhook deliveries by topic and handling result",
		},
		[]string{"topic", "result"},
	)

	SearchIndexOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sync",
			Name:      "search_index_operations_total",
			Help:      "Search index upserts and deletes",
		},
		[]string{"operation", "result"},
	)

	SyncStepFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sync",
			Name:      "step_failures_total",
			Help:      "Reconciliation sub-step failures by step",
		},
		[]string{"step"},
	)
)

// Register installs all collectors on the default registry. Call once.
func Register() {
	prometheus.MustRegister(
		HttpDuration,
		HttpRequests,
		WebhookEvents,
		SearchIndexOps,
		SyncStepFailures,
	)
}
