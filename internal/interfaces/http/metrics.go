package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects request-level and snapshot-level telemetry for the
// read-only API.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	snapshotAssets  prometheus.Gauge
	snapshotAge     prometheus.GaugeFunc
	simulationsRun  prometheus.Counter
}

// NewMetrics registers the collector set on a fresh registry. The
// snapshotAge callback reports seconds since the current snapshot was
// taken.
func NewMetrics(snapshotAge func() float64) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadvi_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cadvi_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		snapshotAssets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cadvi_snapshot_assets",
			Help: "Number of scored assets in the current snapshot.",
		}),
		simulationsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cadvi_simulations_total",
			Help: "Monte Carlo simulation batches served.",
		}),
	}
	m.snapshotAge = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "cadvi_snapshot_age_seconds",
		Help: "Age of the current scored snapshot.",
	}, snapshotAge)

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.snapshotAssets,
		m.snapshotAge,
		m.simulationsRun,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the Prometheus exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetSnapshotSize records the size of the current scored batch.
func (m *Metrics) SetSnapshotSize(n int) {
	m.snapshotAssets.Set(float64(n))
}

// IncSimulations counts one served simulation batch.
func (m *Metrics) IncSimulations() {
	m.simulationsRun.Inc()
}
