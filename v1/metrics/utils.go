package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

// IncrementRequests increments the request counter.
// Example: m.IncrementRequests("GET", "/users/:id", "200")
func (m *Metrics) IncrementRequests(method, route, status string) {
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordRequestDuration records the duration (in seconds) for a route.
// Example: defer m.RecordRequestDuration(time.Now(), "GET", "/users")
func (m *Metrics) RecordRequestDuration(start time.Time, method, route string) {
	m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// ObserveOperation implements observability.Observer. Each operation is
// counted with outcome "success" or "error" and its duration is recorded.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	outcome := "success"
	if op.Error != nil {
		outcome = "error"
	}
	m.operationsTotal.WithLabelValues(op.Component, op.Operation, outcome).Inc()
	m.operationDuration.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
