package tracer

// Config defines the configuration for the OpenTelemetry tracer.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" env:"TRACER_SERVICE_NAME" envDefault:"user-api"`

	// AppEnv is recorded as deployment.environment and as "environment".
	AppEnv string `yaml:"app_env" env:"APP_ENV" envDefault:"development"`

	// EnableExport turns on the OTLP HTTP exporter. When false spans are
	// still created, so trace ids reach the logs, but nothing is sent.
	EnableExport bool `yaml:"enable_export" env:"TRACER_ENABLE_EXPORT"`

	// Endpoint is the full OTLP traces URL, e.g. http://collector:4318/v1/traces.
	// When empty the exporter falls back to the OTEL_EXPORTER_OTLP_* variables.
	Endpoint string `yaml:"endpoint" env:"TRACER_ENDPOINT"`
}
