package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes recorded by Registry.ObserveRun.
const (
	OutcomeOK         = "ok"
	OutcomeDegenerate = "degenerate"
	OutcomeInvalid    = "invalid"
)

// Registry holds the Prometheus metrics of the resilience service.
type Registry struct {
	registry *prometheus.Registry

	Runs              *prometheus.CounterVec
	OutageSimulations prometheus.Counter
	ComputeDuration   prometheus.Histogram
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
}

// NewRegistry creates the metrics on a private registry so tests can build several.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resilience_runs_total",
				Help: "Resilience computations by outcome",
			},
			[]string{"outcome"},
		),

		OutageSimulations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "resilience_outage_simulations_total",
				Help: "Single-outage simulations executed (one per start hour)",
			},
		),

		ComputeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "resilience_compute_duration_seconds",
				Help:    "Wall time of a full resilience computation",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "resilience_cache_hits_total",
				Help: "Requests served from the result cache",
			},
		),

		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "resilience_cache_misses_total",
				Help: "Requests that required a computation",
			},
		),
	}

	r.registry.MustRegister(
		r.Runs,
		r.OutageSimulations,
		r.ComputeDuration,
		r.CacheHits,
		r.CacheMisses,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveRun records one computation. startHours is zero for invalid or degenerate runs.
func (r *Registry) ObserveRun(outcome string, startHours int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Runs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeInvalid {
		return
	}
	r.OutageSimulations.Add(float64(startHours))
	r.ComputeDuration.Observe(elapsed.Seconds())
}

func (r *Registry) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheHits.Inc()
		return
	}
	r.CacheMisses.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
