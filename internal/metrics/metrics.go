// Package metrics holds the Prometheus collectors for translation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "graphol"

// Translation collects run outcomes on its own registry.
type Translation struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	axioms      *prometheus.CounterVec
	resolutions prometheus.Counter
	inFlight    prometheus.Gauge
}

// New creates and registers the translation collectors together with the
// Go runtime and process collectors.
func New() *Translation {
	m := &Translation{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "runs_total",
			Help:      "Translation runs by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "duration_seconds",
			Help:      "Wall time of translation runs",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		axioms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "axioms_total",
			Help:      "Axioms produced by completed runs",
		}, []string{"kind"}),
		resolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "resolutions_total",
			Help:      "Node expressions computed",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "translation",
			Name:      "in_flight",
			Help:      "Translation runs currently executing",
		}),
	}
	m.registry.MustRegister(
		m.runs, m.duration, m.axioms, m.resolutions, m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RunStarted marks a run as executing.
func (m *Translation) RunStarted() { m.inFlight.Inc() }

// RunFinished records the outcome of a run started with RunStarted.
// counts maps axiom kind names to the number produced; it is nil for
// failed runs.
func (m *Translation) RunFinished(status string, d time.Duration, resolutions int, counts map[string]int) {
	m.inFlight.Dec()
	m.runs.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
	m.resolutions.Add(float64(resolutions))
	for kind, n := range counts {
		m.axioms.WithLabelValues(kind).Add(float64(n))
	}
}

// Registry exposes the underlying registry.
func (m *Translation) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Translation) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
