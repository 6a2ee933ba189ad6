package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wa_task_management"

// Results used as label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultFailed  = "failed"
)

type collectors struct {
	searchTotal   *prometheus.CounterVec
	searchLatency *prometheus.HistogramVec

	autoAssignTotal *prometheus.CounterVec

	reconfigureTotal    *prometheus.CounterVec
	reconfigureAttempts prometheus.Histogram

	conflictTotal *prometheus.CounterVec
}

var collectorsSingleton = sync.OnceValue(func() *collectors {
	return &collectors{
		searchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Total number of task searches.",
		}, []string{"request_context", "result"}),
		searchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_latency_seconds",
			Help:      "Latency distribution for task searches.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5,
			},
		}, []string{"request_context"}),
		autoAssignTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_assignment_total",
			Help:      "Total number of auto-assignment decisions by path and resulting state.",
		}, []string{"path", "state"}),
		reconfigureTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconfiguration_total",
			Help:      "Total number of per-task reconfiguration outcomes.",
		}, []string{"result"}),
		reconfigureAttempts: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconfiguration_attempts",
			Help:      "Attempts needed per reconfigured task.",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		}),
		conflictTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflict_total",
			Help:      "Total number of store conflicts surfaced to callers.",
		}, []string{"kind"}),
	}
})

func ObserveSearch(requestContext, result string, elapsed time.Duration) {
	if requestContext == "" {
		requestContext = "ALL_WORK"
	}
	c := collectorsSingleton()
	c.searchTotal.WithLabelValues(requestContext, result).Inc()
	c.searchLatency.WithLabelValues(requestContext).Observe(elapsed.Seconds())
}

func RecordAutoAssignment(path, state string) {
	collectorsSingleton().autoAssignTotal.WithLabelValues(path, state).Inc()
}

func RecordReconfiguration(result string, attempts int) {
	c := collectorsSingleton()
	c.reconfigureTotal.WithLabelValues(result).Inc()
	if attempts > 0 {
		c.reconfigureAttempts.Observe(float64(attempts))
	}
}

func RecordConflict(kind string) {
	collectorsSingleton().conflictTotal.WithLabelValues(kind).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	collectorsSingleton()
	return promhttp.Handler()
}
