package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

// MetricsCollector is implemented by *Metrics. HTTP handlers record requests
// through it, and it doubles as an observability.Observer so clients such as
// the schema registry and the Kafka producer can report their operations.
type MetricsCollector interface {
	observability.Observer

	// IncrementRequests counts one handled request.
	IncrementRequests(method, route, status string)

	// RecordRequestDuration records the time elapsed since start for a route.
	RecordRequestDuration(start time.Time, method, route string)

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
