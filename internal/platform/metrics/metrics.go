// Package metrics holds the prometheus collectors for the API and the reference cache
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pfascheck"

// Metrics holds the collectors; a nil *Metrics is a valid no-op recorder
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: method, route

	// Lookup metrics.
	Lookups   *prometheus.CounterVec // labels: mode={single,batch}, result={affected,clear,invalid}
	BatchRows prometheus.Histogram

	// Reference cache metrics.
	ReferenceLoads        *prometheus.CounterVec // labels: source, outcome={success,error}
	ReferenceLoadDuration prometheus.Histogram
	ReferenceSize         prometheus.Gauge
	ReferenceDegraded     prometheus.Gauge
}

func build() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method and route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Zip code lookups by mode and result.",
		}, []string{"mode", "result"}),
		BatchRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_rows",
			Help:      "Rows per processed batch file.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		ReferenceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_loads_total",
			Help:      "Reference set loads by source and outcome.",
		}, []string{"source", "outcome"}),
		ReferenceLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reference_load_duration_seconds",
			Help:      "Duration of a reference set fetch and build.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ReferenceSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_zip_codes",
			Help:      "Unique zip codes in the current reference snapshot.",
		}),
		ReferenceDegraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_degraded",
			Help:      "1 when the current snapshot is an empty fallback after a failed load.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.HTTPRequests,
		m.HTTPDuration,
		m.Lookups,
		m.BatchRows,
		m.ReferenceLoads,
		m.ReferenceLoadDuration,
		m.ReferenceSize,
		m.ReferenceDegraded,
	}
}

// NewMetrics creates and registers all collectors with the default registry,
// alongside the process and go runtime collectors it already carries
func NewMetrics() *Metrics {
	m := build()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	m := build()
	reg.MustRegister(m.collectors()...)
	reg.MustRegister(collectors.NewGoCollector())
	m.gatherer = reg
	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP matches middleware.AccessLogOptions.Observe
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Lookup counts one lookup outcome
func (m *Metrics) Lookup(mode, result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(mode, result).Inc()
}

// Batch records a processed batch and its per-row outcomes
func (m *Metrics) Batch(rows, affected, invalid int) {
	if m == nil {
		return
	}
	m.BatchRows.Observe(float64(rows))
	m.Lookups.WithLabelValues("batch", "affected").Add(float64(affected))
	m.Lookups.WithLabelValues("batch", "invalid").Add(float64(invalid))
	m.Lookups.WithLabelValues("batch", "clear").Add(float64(rows - affected - invalid))
}

// ReferenceLoad records one reference fetch
func (m *Metrics) ReferenceLoad(source string, size int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	degraded := 0.0
	if err != nil {
		outcome = "error"
		degraded = 1
	}
	m.ReferenceLoads.WithLabelValues(source, outcome).Inc()
	m.ReferenceLoadDuration.Observe(elapsed.Seconds())
	m.ReferenceSize.Set(float64(size))
	m.ReferenceDegraded.Set(degraded)
}
