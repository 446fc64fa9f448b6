package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application metrics shared between the API server and the
// notification dispatcher.
type Metrics struct {
	NotificationsDispatched prometheus.Counter
	NotificationsFailed     prometheus.Counter
	DispatchLatency         prometheus.Histogram

	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		NotificationsDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_dispatched_total",
			Help:      "Total number of successfully dispatched notification events",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_failed_total",
			Help:      "Total number of notification events that exhausted their retries",
		}),
		DispatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notification_dispatch_duration_seconds",
			Help:      "Time spent dispatching a batch of notification events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Database operations by name and result",
		}, []string{"operation", "status"}),
	}
}
