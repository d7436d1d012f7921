package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	registry *prometheus.Registry

	searches  *prometheus.CounterVec
	nodes     *prometheus.HistogramVec
	duration  *prometheus.HistogramVec
	cost      *prometheus.HistogramVec
	cacheHits prometheus.Counter
}

// NewMetrics registers the solver metrics on reg. A nil reg gets a fresh
// registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "liquidsort_searches_total",
			Help: "Finished searches by strategy and outcome",
		}, []string{"strategy", "status"}),
		nodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "liquidsort_nodes_expanded",
			Help:    "Frontier entries dequeued per search",
			Buckets: prometheus.ExponentialBuckets(1, 10, 8),
		}, []string{"strategy"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "liquidsort_search_duration_seconds",
			Help:    "Wall time per search",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"strategy"}),
		cost: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "liquidsort_solution_cost",
			Help:    "Displaced volume of solutions found",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}, []string{"strategy"}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "liquidsort_cache_hits_total",
			Help: "Searches answered from the solution cache",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile dumps every metric in the Prometheus text format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
