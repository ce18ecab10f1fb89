// Package tracer wraps the OpenTelemetry SDK for the user API.
//
// NewClient installs a global tracer provider and the W3C propagator.
// Spans started from it carry the trace and span ids that the logger package
// attaches to every *WithContext log entry. Export over OTLP/HTTP is opt-in
// through Config.EnableExport.
//
//	t, err := tracer.NewClient(cfg, log)
//	ctx, span := t.StartSpan(ctx, "GET /users/:id")
//	defer span.End()
//	t.SetAttributes(span, map[string]interface{}{"user.id": id})
package tracer
