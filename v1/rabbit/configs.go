package rabbit

import (
	"context"
	"time"
)

// Config defines the configuration for the RabbitMQ event publisher.
type Config struct {
	// Connection contains the settings needed to reach the RabbitMQ server
	Connection Connection `yaml:"connection" envPrefix:"RABBITMQ_"`

	// Channel contains the exchange and routing settings used when publishing
	Channel Channel `yaml:"channel" envPrefix:"RABBITMQ_"`
}

// Connection contains the parameters needed to connect to a RabbitMQ
// server, including authentication and TLS settings.
type Connection struct {
	// Host is the RabbitMQ server hostname or IP address. An empty host
	// leaves RabbitMQ publishing disabled.
	Host string `yaml:"host" env:"HOST"`

	// Port is the RabbitMQ server port (typically 5672, or 5671 for TLS)
	Port uint `yaml:"port" env:"PORT" envDefault:"5672"`

	// User is the RabbitMQ username
	User string `yaml:"user" env:"USER" envDefault:"guest"`

	// Password is the RabbitMQ password
	Password string `yaml:"password" env:"PASSWORD" envDefault:"guest"` //nolint:gosec

	// VHost is the virtual host to open; empty means the default "/"
	VHost string `yaml:"vhost" env:"VHOST"`

	// IsSSLEnabled switches the connection to amqps
	IsSSLEnabled bool `yaml:"ssl_enabled" env:"SSL_ENABLED"`

	// UseCert sends a client certificate for mutual TLS
	UseCert bool `yaml:"use_cert" env:"USE_CERT"`

	// CACertPath is the CA certificate used to verify the server
	CACertPath string `yaml:"ca_cert_path" env:"CA_CERT_PATH"`

	// ClientCertPath and ClientKeyPath are used when UseCert is true
	ClientCertPath string `yaml:"client_cert_path" env:"CLIENT_CERT_PATH"`
	ClientKeyPath  string `yaml:"client_key_path" env:"CLIENT_KEY_PATH"`

	// ServerName overrides the name checked against the server certificate
	ServerName string `yaml:"server_name" env:"SERVER_NAME"`
}

// Channel contains the exchange settings used for publishing.
type Channel struct {
	// ExchangeName is the exchange messages are published to. Empty means
	// the default exchange, which routes by queue name.
	ExchangeName string `yaml:"exchange_name" env:"EXCHANGE"`

	// ExchangeType is used when DeclareExchange is set: direct, fanout,
	// topic or headers
	ExchangeType string `yaml:"exchange_type" env:"EXCHANGE_TYPE" envDefault:"topic"`

	// DeclareExchange declares a durable exchange when the channel opens
	DeclareExchange bool `yaml:"declare_exchange" env:"DECLARE_EXCHANGE"`

	// RoutingKey is attached to every published message
	RoutingKey string `yaml:"routing_key" env:"ROUTING_KEY"`

	// ContentType is the MIME type of published messages
	ContentType string `yaml:"content_type" env:"CONTENT_TYPE" envDefault:"application/json"`

	// DelayToReconnect is the pause between reconnection attempts
	DelayToReconnect time.Duration `yaml:"delay_to_reconnect" env:"RECONNECT_DELAY" envDefault:"1s"`
}

// Logger is the subset of logger.Logger the publisher uses.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Defaults applied to zero-valued settings.
const (
	DefaultPort             = 5672
	DefaultContentType      = "application/json"
	DefaultDelayToReconnect = time.Second
	DefaultHeartbeat        = 2 * time.Second
)
