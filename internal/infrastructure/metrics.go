package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the statement service.
type Metrics struct {
	registry *prometheus.Registry

	ParsesTotal      *prometheus.CounterVec
	ParseDuration    prometheus.Histogram
	RecordsExtracted prometheus.Counter
	StoredDocuments  prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
}

// NewMetrics creates a self-contained registry with all service instruments
// plus the standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ParsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soa",
			Name:      "parses_total",
			Help:      "Workbook parse attempts by outcome.",
		}, []string{"outcome"}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "soa",
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing a single workbook.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		RecordsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "soa",
			Name:      "records_extracted_total",
			Help:      "Line items extracted across all parses.",
		}),
		StoredDocuments: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "soa",
			Name:      "stored_documents",
			Help:      "Parsed documents currently held in the store.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soa",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// Handler returns the /metrics scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
