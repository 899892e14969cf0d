// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pdfgate"

// Metrics groups the server collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inFlight    prometheus.Gauge
	requests    *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Conversions by engine and outcome.",
			},
			[]string{"engine", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Time spent converting, including waiting for a slot.",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"engine"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversions_in_flight",
			Help:      "Conversions currently running or waiting for a slot.",
		}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by status code.",
			},
			[]string{"code"},
		),
	}

	m.registry.MustRegister(
		m.conversions,
		m.duration,
		m.inFlight,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ConversionStarted increments the in-flight gauge and returns a function
// recording the outcome.
func (m *Metrics) ConversionStarted(engine string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(outcome string) {
		m.inFlight.Dec()
		m.duration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
		m.conversions.WithLabelValues(engine, outcome).Inc()
	}
}

// ObserveRequest counts a finished HTTP request.
func (m *Metrics) ObserveRequest(status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
}
