// Package logger provides structured logging on top of Uber's zap.
//
// LoggerClient is the concrete type; Logger is the interface the rest of the
// module depends on. Every method takes a message, an optional error and
// optional field maps:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "schemactl"})
//	log.Info("schema registered", nil, map[string]interface{}{"subject": "orders-value"})
//
// The *WithContext variants add trace_id and span_id from the OpenTelemetry
// span in the context when Config.EnableTracing is set.
//
// Configuration via environment (caarlos0/env tags on Config):
//
//	ZAP_LOGGER_LEVEL=debug|info|warning|error
//	SERVICE_NAME=user-api
//	LOGGER_ENABLE_TRACING=true
//
// FXModule provides *LoggerClient and Logger and syncs the logger on stop.
package logger
