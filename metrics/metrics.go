// Package metrics holds the Prometheus collectors of a crawl run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "vacancies"
	Subsystem = "crawler"
)

// Failure reasons used as the "reason" label of RequestsFailed.
const (
	ReasonCheck   = "check"
	ReasonFetch   = "fetch"
	ReasonParse   = "parse"
	ReasonStorage = "storage"
)

type Metrics struct {
	RequestsScheduled *prometheus.CounterVec
	RequestsFetched   *prometheus.CounterVec
	RequestsDuplicate *prometheus.CounterVec
	RequestsFailed    *prometheus.CounterVec
	ItemsSaved        *prometheus.CounterVec
	FetchDuration     *prometheus.HistogramVec
	QueueDepth        prometheus.Gauge
	WorkersBusy       prometheus.Gauge
}

// New registers the collectors on reg, or on the default registerer when reg
// is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsScheduled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "requests_scheduled_total",
			Help:      "Requests handed to the scheduler",
		}, []string{"task", "rule"}),
		RequestsFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "requests_fetched_total",
			Help:      "Pages fetched successfully",
		}, []string{"task", "rule"}),
		RequestsDuplicate: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "requests_duplicate_total",
			Help:      "Requests dropped because the URL was already visited",
		}, []string{"task"}),
		RequestsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "requests_failed_total",
			Help:      "Requests that failed, by reason",
		}, []string{"task", "rule", "reason"}),
		ItemsSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "items_saved_total",
			Help:      "Records handed to storage",
		}, []string{"task"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching a page, limiter wait included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "queue_depth",
			Help:      "Requests waiting in the scheduler queue",
		}),
		WorkersBusy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "workers_busy",
			Help:      "Workers currently processing a request",
		}),
	}
}
