// Package metrics exposes Prometheus metrics for refreshes and HTTP traffic.
//
// Metrics live on their own registry so tests and multiple servers in one
// process never collide on registration.
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

const namespace = "vidsheet"

// Metrics holds all service metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	RefreshTotal       *prometheus.CounterVec
	RefreshDuration    prometheus.Histogram
	SnapshotRecords    prometheus.Gauge
	SnapshotDropped    prometheus.Gauge
	LastRefreshSuccess prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers every metric on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Sheet refreshes by trigger and outcome code",
		}, []string{"trigger", "status", "code"}),

		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time to fetch and parse the sheet",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		SnapshotRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records in the current snapshot",
		}),

		SnapshotDropped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_dropped_rows",
			Help:      "Rows rejected by validation in the current snapshot",
		}),

		LastRefreshSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRefresh records one refresh outcome. code is the error code of a
// failed refresh and empty on success.
func (m *Metrics) ObserveRefresh(trigger, code string, records, dropped int, took time.Duration) {
	if m == nil {
		return
	}

	status, label := "succeeded", "OK"
	if code != "" {
		status, label = "failed", code
	}
	m.RefreshTotal.WithLabelValues(trigger, status, label).Inc()
	m.RefreshDuration.Observe(took.Seconds())

	if code == "" {
		m.SnapshotRecords.Set(float64(records))
		m.SnapshotDropped.Set(float64(dropped))
		m.LastRefreshSuccess.SetToCurrentTime()
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(took.Seconds())
}
