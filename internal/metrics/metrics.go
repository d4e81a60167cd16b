// Package metrics holds the Prometheus collectors shared by the recompute
// orchestrator and the HTTP server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "rentability"

// Metrics is a set of collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Orchestrator.
	Scheduled       prometheus.Counter
	Skipped         prometheus.Counter
	Superseded      prometheus.Counter
	Published       prometheus.Counter
	Unchanged       prometheus.Counter
	Patches         prometheus.Counter
	ComputeDuration prometheus.Histogram

	// HTTP.
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// Options configure New.
type Options struct {
	Namespace string
	// Runtime adds the Go and process collectors.
	Runtime bool
}

// New creates and registers the collectors.
func New(opts Options) *Metrics {
	ns := opts.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	counter := func(subsystem, name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		Scheduled:  counter("recompute", "scheduled_total", "Computations scheduled after an input change."),
		Skipped:    counter("recompute", "skipped_total", "Notifications ignored because the input fingerprint did not change."),
		Superseded: counter("recompute", "superseded_total", "Computations discarded because newer inputs arrived."),
		Published:  counter("recompute", "published_total", "Results published to subscribers."),
		Unchanged:  counter("recompute", "unchanged_total", "Results equal to the last published one."),
		Patches:    counter("reconcile", "patches_total", "Derived-field patches applied to the property."),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "recompute",
			Name:      "duration_seconds",
			Help:      "Time spent running the analysis pipeline.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05},
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.Scheduled, m.Skipped, m.Superseded, m.Published, m.Unchanged, m.Patches,
		m.ComputeDuration, m.Requests, m.RequestDuration,
	)
	if opts.Runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: ns}),
		)
	}
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
