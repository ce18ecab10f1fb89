package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
)

// messageWriter is the part of *kafka.Writer the producer depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes messages to a single Kafka topic.
type Producer struct {
	// cfg stores the configuration for this producer
	cfg Config

	// writer is the Kafka writer used for publishing messages
	writer messageWriter

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer

	// mu protects writer and closed
	mu     sync.RWMutex
	closed bool
}

// NewProducer creates a Producer for cfg.Topic. No connection is opened until
// the first Publish.
//
// Parameters:
//   - cfg: Configuration for connecting to Kafka
//
// Returns a ready Producer, or an error wrapping ErrInvalidConfig.
//
// Example:
//
//	producer, err := kafka.NewProducer(kafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "order-events",
//	})
//	if err != nil {
//	    return err
//	}
//	defer producer.Close()
func NewProducer(cfg Config) (*Producer, error) {
	return newProducer(cfg, nil)
}

// NewProducerWithLogger is NewProducer with writer errors reported to l.
func NewProducerWithLogger(cfg Config, l Logger) (*Producer, error) {
	return newProducer(cfg, l)
}

func newProducer(cfg Config, l Logger) (*Producer, error) {
	cfg = applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	return &Producer{
		cfg:    cfg,
		writer: createWriter(cfg, tlsConfig, mechanism, l),
	}, nil
}

// WithObserver attaches an observer and returns the producer for chaining.
// The observer is notified once per Publish.
func (p *Producer) WithObserver(observer observability.Observer) *Producer {
	p.observer = observer
	return p
}

// Topic returns the topic the producer writes to.
func (p *Producer) Topic() string {
	return p.cfg.Topic
}

// Publish writes one message with the given key, value and headers.
// Header keys are written in sorted order.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers map[string]string) error {
	start := time.Now()
	err := p.publish(ctx, key, value, headers)
	p.observeOperation("produce", time.Since(start), err, int64(len(value)))
	return err
}

// PublishWithSchema frames value in the Confluent wire format for schemaID
// (magic byte 0x00, 4-byte big-endian id, payload) and publishes it.
func (p *Producer) PublishWithSchema(ctx context.Context, schemaID int, key, value []byte, headers map[string]string) error {
	return p.Publish(ctx, key, schema_registry.Frame(schemaID, value), headers)
}

func (p *Producer) publish(ctx context.Context, key, value []byte, headers map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}

	msg := kafka.Message{
		Key:   key,
		Value: value,
	}
	if len(headers) > 0 {
		keys := make([]string, 0, len(headers))
		for k := range headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		msg.Headers = make([]kafka.Header, 0, len(keys))
		for _, k := range keys {
			msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(headers[k])})
		}
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.cfg.Topic, err)
	}
	return nil
}

// Close flushes pending messages and releases the writer. It is safe to call
// more than once.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

func applyDefaults(cfg Config) Config {
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = DefaultRequiredAcks
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	return cfg
}

func validate(cfg Config) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("%w: at least one broker is required", ErrInvalidConfig)
	}
	if cfg.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	if _, err := compressionCodec(cfg.CompressionCodec); err != nil {
		return err
	}
	return nil
}

func compressionCodec(name string) (compress.Codec, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "gzip":
		return &compress.GzipCodec, nil
	case "snappy":
		return &compress.SnappyCodec, nil
	case "lz4":
		return &compress.Lz4Codec, nil
	case "zstd":
		return &compress.ZstdCodec, nil
	default:
		return nil, fmt.Errorf("%w: unsupported compression codec %q", ErrInvalidConfig, name)
	}
}

// createErrorLogger routes writer errors to l, or drops them when l is nil.
func createErrorLogger(topic string, l Logger) kafka.Logger {
	if l == nil {
		return nil
	}
	return kafka.LoggerFunc(func(msg string, args ...interface{}) {
		l.Error("Kafka internal error", nil, map[string]interface{}{
			"error": fmt.Sprintf(msg, args...),
			"topic": topic,
		})
	})
}

// createWriter creates a Kafka writer with the given configuration
func createWriter(cfg Config, tlsConfig *tls.Config, mechanism sasl.Mechanism, l Logger) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: cfg.RequiredAcks,
		ErrorLogger:  createErrorLogger(cfg.Topic, l),
		Dialer: &kafka.Dialer{
			Timeout:       cfg.WriteTimeout,
			DualStack:     true,
			TLS:           tlsConfig,
			SASLMechanism: mechanism,
		},
	}

	// A synchronous producer sends every message on its own.
	writerConfig.BatchSize = 1
	if cfg.Async {
		writerConfig.Async = true
		writerConfig.BatchSize = cfg.BatchSize
		writerConfig.BatchTimeout = cfg.BatchTimeout
	}

	writerConfig.CompressionCodec, _ = compressionCodec(cfg.CompressionCodec)

	return kafka.NewWriter(writerConfig)
}

// createTLSConfig creates a TLS configuration from the provided config
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("%w: unsupported SASL mechanism: %s", ErrInvalidConfig, cfg.Mechanism)
	}
}
