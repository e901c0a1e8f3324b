// Package metrics provides Prometheus metrics for the TAXII server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of one server instance. Each instance
// owns its registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Query metrics
	ObjectsServedTotal *prometheus.CounterVec
	PagesOutOfRange    prometheus.Counter

	// Hydration metrics
	HydrationRunsTotal    *prometheus.CounterVec
	HydrationObjectsTotal prometheus.Counter
	HydrationLastSuccess  prometheus.Gauge
}

// New creates and registers all metrics, plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxii_http_requests_total",
			Help: "Total number of TAXII HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxii_http_request_duration_seconds",
			Help:    "Duration of TAXII HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "taxii_http_requests_in_flight",
			Help: "Number of TAXII HTTP requests currently being processed",
		},
	)

	m.ObjectsServedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxii_objects_served_total",
			Help: "Total number of items returned in envelopes, manifests and version lists",
		},
		[]string{"resource"},
	)

	m.PagesOutOfRange = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "taxii_pages_out_of_range_total",
			Help: "Total number of requests for a page past the end of the result",
		},
	)

	m.HydrationRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxii_hydration_runs_total",
			Help: "Total number of hydration runs",
		},
		[]string{"status"},
	)

	m.HydrationObjectsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "taxii_hydration_objects_total",
			Help: "Total number of STIX objects stored by hydration",
		},
	)

	m.HydrationLastSuccess = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "taxii_hydration_last_success_timestamp_seconds",
			Help: "Unix time of the last successful hydration run",
		},
	)

	return m
}

// RecordHTTPRequest records a finished HTTP request under its numeric status.
func (m *Metrics) RecordHTTPRequest(route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordServed records the number of items returned for a resource kind.
func (m *Metrics) RecordServed(resource string, n int) {
	m.ObjectsServedTotal.WithLabelValues(resource).Add(float64(n))
}

// RecordHydration records the outcome of one hydration run.
func (m *Metrics) RecordHydration(objects int, err error, at time.Time) {
	if err != nil {
		m.HydrationRunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.HydrationRunsTotal.WithLabelValues("ok").Inc()
	m.HydrationObjectsTotal.Add(float64(objects))
	m.HydrationLastSuccess.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
