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

	ScheduleMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_mutations_total",
			Help: "Schedule and catalog mutations by entity and action",
		},
		[]string{"entity", "action"},
	)

	WorkingSetLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "working_set_lookups_total",
			Help: "Working set reads by result",
		},
		[]string{"result"}, // hit, miss
	)

	WorkingSetInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "working_set_invalidations_total",
			Help: "Working set snapshots dropped after a change notification",
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncMutation(entity, action string) {
	ScheduleMutations.WithLabelValues(entity, action).Inc()
}

func IncLookup(hit bool) {
	if hit {
		WorkingSetLookups.WithLabelValues("hit").Inc()
		return
	}
	WorkingSetLookups.WithLabelValues("miss").Inc()
}
