package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "user-api"})
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)

	m = NewMetrics(Config{Address: "127.0.0.1:9100", ServiceName: "user-api"})
	assert.Equal(t, "127.0.0.1:9100", m.Server.Addr)
}

func TestRequests(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "user-api"})

	m.IncrementRequests("GET", "/users/:id", "200")
	m.IncrementRequests("GET", "/users/:id", "200")
	m.IncrementRequests("GET", "/users/:id", "404")
	m.RecordRequestDuration(time.Now().Add(-50*time.Millisecond), "GET", "/users/:id")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/users/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/users/:id", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}

func TestObserveOperation(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "schemactl"})
	var observer observability.Observer = m

	observer.ObserveOperation(observability.OperationContext{
		Component: "schema_registry",
		Operation: "get_latest_schema",
		Duration:  20 * time.Millisecond,
	})
	observer.ObserveOperation(observability.OperationContext{
		Component: "schema_registry",
		Operation: "get_latest_schema",
		Error:     errors.New("boom"),
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("schema_registry", "get_latest_schema", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("schema_registry", "get_latest_schema", "error")))
}

func TestCustomMetrics(t *testing.T) {
	m := NewMetrics(Config{Namespace: "schema_management", ServiceName: "user-api"})

	counter := m.CreateCounter("user_events_total", "User change events", []string{"type"})
	counter.WithLabelValues("created").Inc()
	gauge := m.CreateGauge("users", "Stored users", nil)
	gauge.WithLabelValues().Set(3)
	hist := m.CreateHistogram("payload_bytes", "Payload sizes", nil, []float64{100, 1000})
	hist.WithLabelValues().Observe(42)

	count, err := testutil.GatherAndCount(m.Registry,
		"schema_management_user_events_total",
		"schema_management_users",
		"schema_management_payload_bytes",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestHandler(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "user-api"})
	m.IncrementRequests("POST", "/users", "201")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `requests_total{method="POST",route="/users",service="user-api",status="201"} 1`), body)
}
