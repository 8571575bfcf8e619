package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the web front end.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	AnalysesTotal   *prometheus.CounterVec
	AnalysisSeconds prometheus.Histogram
	ExportsTotal    *prometheus.CounterVec
	Sessions        prometheus.Gauge
}

// NewMetrics registers the metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetsum_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "method", "code"},
		),
		RequestSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetsum_http_request_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetsum_analyses_total",
				Help: "Transcript analyses by outcome",
			},
			[]string{"outcome"},
		),
		AnalysisSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meetsum_analysis_seconds",
				Help:    "Backend analysis latency",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetsum_exports_total",
				Help: "JSON exports by outcome",
			},
			[]string{"outcome"},
		),
		Sessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "meetsum_sessions",
				Help: "Live browser sessions",
			},
		),
	}
}
