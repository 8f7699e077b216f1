// Package metrics owns the Prometheus registry and the collectors for
// GraphQL requests and batch loads.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookstore"

// Metrics holds every collector the service exports
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	batchSize       *prometheus.HistogramVec
	batchDuration   *prometheus.HistogramVec
	batchErrors     *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, plus Go runtime collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "requests_total",
			Help:      "GraphQL requests by operation type and outcome",
		}, []string{"operation", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "request_duration_seconds",
			Help:      "GraphQL request execution time",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		batchSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "keys",
			Help:      "Number of keys per batch load",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"loader"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Time spent in one batch load including the store query",
			Buckets:   prometheus.DefBuckets,
		}, []string{"loader"}),
		batchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "errors_total",
			Help:      "Batch loads that failed as a whole",
		}, []string{"loader"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.batchSize,
		m.batchDuration,
		m.batchErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBatch records one batch load
func (m *Metrics) ObserveBatch(loader string, keys int, elapsed time.Duration, err error) {
	m.batchSize.WithLabelValues(loader).Observe(float64(keys))
	m.batchDuration.WithLabelValues(loader).Observe(elapsed.Seconds())
	if err != nil {
		m.batchErrors.WithLabelValues(loader).Inc()
	}
}

// ObserveRequest records one GraphQL request. status is "ok" or "error".
func (m *Metrics) ObserveRequest(operation, status string, elapsed time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	m.requests.WithLabelValues(operation, status).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
