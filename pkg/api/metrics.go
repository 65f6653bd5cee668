package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ssargent/hcidx/pkg/tiered"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the demo API.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Index operation metrics
	indexOperationsTotal   *prometheus.CounterVec
	indexOperationDuration *prometheus.HistogramVec

	// Hot/cold tier gauges, refreshed from tiered.Stats snapshots. These
	// are gauges rather than counters because tiered.Stats already
	// accumulates lifetime totals — the handler just republishes the
	// latest snapshot instead of tracking its own deltas.
	hotKeysGauge  prometheus.Gauge
	coldKeysGauge prometheus.Gauge
	hotHitsGauge  prometheus.Gauge
	coldHitsGauge prometheus.Gauge
	notFoundGauge prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics for the demo
// API.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hcidx_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hcidx_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hcidx_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
		indexOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hcidx_index_operations_total",
				Help: "Total number of index operations",
			},
			[]string{"operation", "status"},
		),
		indexOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hcidx_index_operation_duration_seconds",
				Help:    "Index operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		hotKeysGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hcidx_hot_keys_total",
			Help: "Current number of keys resident in the hot tier",
		}),
		coldKeysGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hcidx_cold_keys_total",
			Help: "Current number of keys resident in the cold tier",
		}),
		hotHitsGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hcidx_hot_hits_total",
			Help: "Lifetime number of point lookups served from the hot tier",
		}),
		coldHitsGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hcidx_cold_hits_total",
			Help: "Lifetime number of point lookups served from the cold tier",
		}),
		notFoundGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hcidx_not_found_total",
			Help: "Lifetime number of point lookups that found nothing",
		}),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)
	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIndexOperation records an index operation (search, insert,
// range).
func (m *Metrics) RecordIndexOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.indexOperationsTotal.WithLabelValues(operation, status).Inc()
	m.indexOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveStats republishes a fresh tiered.Stats snapshot onto the
// gauges above.
func (m *Metrics) ObserveStats(s tiered.Stats) {
	m.hotKeysGauge.Set(float64(s.HotKeys))
	m.coldKeysGauge.Set(float64(s.ColdKeys))
	m.hotHitsGauge.Set(float64(s.HotHits))
	m.coldHitsGauge.Set(float64(s.ColdHits))
	m.notFoundGauge.Set(float64(s.NotFound))
}

// InstrumentHandler instruments an HTTP handler with request metrics.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
// written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
