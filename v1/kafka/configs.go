package kafka

import "time"

// Config defines the configuration for the Kafka producer.
type Config struct {
	// Brokers is a list of Kafka broker addresses
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`

	// Topic is the Kafka topic to publish to
	Topic string `yaml:"topic" env:"KAFKA_TOPIC"`

	// RequiredAcks determines how many replica acknowledgments to wait for
	// Options:
	//   RequireNone (0): Don't wait for acknowledgment
	//   RequireOne (1): Wait for leader only
	//   RequireAll (-1): Wait for all in-sync replicas
	// Default: RequireAll (-1)
	RequiredAcks int `yaml:"required_acks" env:"KAFKA_REQUIRED_ACKS"`

	// WriteTimeout is the timeout for write operations
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout" env:"KAFKA_WRITE_TIMEOUT"`

	// MaxAttempts is the maximum number of attempts to deliver a message
	// Default: 10
	MaxAttempts int `yaml:"max_attempts" env:"KAFKA_MAX_ATTEMPTS"`

	// Async enables async write mode; writes are batched and errors are only logged
	// Default: false
	Async bool `yaml:"async" env:"KAFKA_ASYNC"`

	// BatchSize is the maximum number of messages to batch together
	// Only used when Async is true
	// Default: 100
	BatchSize int `yaml:"batch_size" env:"KAFKA_BATCH_SIZE"`

	// BatchTimeout is the maximum time to wait before sending a batch
	// Only used when Async is true
	// Default: 1s
	BatchTimeout time.Duration `yaml:"batch_timeout" env:"KAFKA_BATCH_TIMEOUT"`

	// CompressionCodec specifies the compression algorithm to use
	// Options: "" (no compression), gzip, snappy, lz4, zstd
	CompressionCodec string `yaml:"compression_codec" env:"KAFKA_COMPRESSION"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls" envPrefix:"KAFKA_TLS_"`

	// SASL contains SASL authentication configuration
	SASL SASLConfig `yaml:"sasl" envPrefix:"KAFKA_SASL_"`
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// CACertPath is the file path to the CA certificate for verifying the broker
	CACertPath string `yaml:"ca_cert_path" env:"CA_CERT_PATH"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `yaml:"client_cert_path" env:"CLIENT_CERT_PATH"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `yaml:"client_key_path" env:"CLIENT_KEY_PATH"`

	// InsecureSkipVerify controls whether to skip verification of the server's certificate
	// WARNING: Setting this to true is insecure and should only be used in testing
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" env:"INSECURE_SKIP_VERIFY"`
}

// SASLConfig contains SASL authentication configuration parameters.
type SASLConfig struct {
	// Enabled determines whether to use SASL authentication
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Mechanism specifies the SASL mechanism to use
	// Options: "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	Mechanism string `yaml:"mechanism" env:"MECHANISM"`

	// Username is the SASL username
	Username string `yaml:"username" env:"USERNAME"`

	// Password is the SASL password
	Password string `yaml:"password" env:"PASSWORD"` //nolint:gosec
}

// Logger is the subset of logger.Logger used to report writer errors.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
}

// Default values for configuration
const (
	DefaultRequiredAcks = -1 // WaitForAll
	DefaultWriteTimeout = 10 * time.Second
	DefaultMaxAttempts  = 10
	DefaultBatchSize    = 100
	DefaultBatchTimeout = 1 * time.Second
)
