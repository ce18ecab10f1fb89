// Package metrics exposes Prometheus metrics over a dedicated HTTP server.
//
// Each service gets its own registry with a constant "service" label. The
// built-in collectors track HTTP requests (method, route, status) and client
// operations reported through observability.Observer (component, operation,
// outcome), so a *Metrics can be handed to schema_registry.Client.WithObserver
// or kafka.Producer.WithObserver directly.
//
// Basic usage:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "user-api"})
//
//	start := time.Now()
//	// handle request...
//	m.IncrementRequests("GET", "/users", "200")
//	m.RecordRequestDuration(start, "GET", "/users")
//
// Custom metrics are registered on the same registry:
//
//	events := m.CreateCounter("user_events_total", "User change events", []string{"type"})
//	events.WithLabelValues("created").Inc()
package metrics
