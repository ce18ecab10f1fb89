package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls how the zap logger is built.
type Config struct {
	// Level is one of Debug, Info, Warning or Error.
	// Unknown values fall back to Info.
	Level string `yaml:"level" env:"ZAP_LOGGER_LEVEL" envDefault:"info"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id from the active OpenTelemetry
	// span to entries logged through the *WithContext methods.
	EnableTracing bool `yaml:"enable_tracing" env:"LOGGER_ENABLE_TRACING"`

	// OutputPaths defaults to stderr. The CLI keeps stdout for
	// human-readable output, so logs never go there by default.
	OutputPaths []string `yaml:"output_paths" env:"LOGGER_OUTPUT_PATHS" envSeparator:","`
}
