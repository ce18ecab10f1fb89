package observability

import "time"

// Observer is a unified interface for observability across the v1 packages.
// It lets callers watch operations performed by infrastructure packages
// (schema_registry, kafka, postgres) without coupling those packages to a
// specific metrics, tracing or logging implementation.
//
// The interface is optional: every package works without an observer.
type Observer interface {
	// ObserveOperation is called when an infrastructure operation completes.
	ObserveOperation(ctx OperationContext)
}

// OperationContext contains all information about an infrastructure operation.
type OperationContext struct {
	// Component identifies which package performed the operation.
	// Examples: "schema_registry", "kafka", "postgres"
	Component string

	// Operation describes what was performed.
	// Examples: "register_schema", "list_subjects", "produce", "insert"
	Operation string

	// Resource identifies the primary resource: a subject, a topic, a table.
	Resource string

	// SubResource gives optional extra context, e.g. a schema version or partition.
	SubResource string

	// Duration is how long the operation took.
	Duration time.Duration

	// Error is the error returned by the operation; nil on success.
	Error error

	// Size is the amount of data involved (bytes or rows), when known.
	Size int64

	// Metadata carries operation-specific extras such as status codes.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
