package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results as reported to prometheus
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusError    = "error"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "point_operations_total",
			Help: "Total number of point operations labeled by operation and status",
		},
		[]string{"op", "status"},
	)
	operationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "point_operation_duration_seconds",
			Help:    "Duration of point operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// RecordOperation increments the operation counter and records duration.
func RecordOperation(op, status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}

	operationsTotal.WithLabelValues(op, status).Inc()
	operationDurationSeconds.WithLabelValues(op).Observe(duration.Seconds())
}
