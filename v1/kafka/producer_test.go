package kafka

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed++
	return nil
}

func newTestProducer(w *fakeWriter) *Producer {
	return &Producer{cfg: Config{Topic: "order-events"}, writer: w}
}

func TestNewProducer(t *testing.T) {
	t.Run("missing brokers", func(t *testing.T) {
		_, err := NewProducer(Config{Topic: "order-events"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing topic", func(t *testing.T) {
		_, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown codec", func(t *testing.T) {
		_, err := NewProducer(Config{Brokers: []string{"localhost:9092"}, Topic: "t", CompressionCodec: "brotli"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown sasl mechanism", func(t *testing.T) {
		_, err := NewProducer(Config{
			Brokers: []string{"localhost:9092"},
			Topic:   "t",
			SASL:    SASLConfig{Enabled: true, Mechanism: "GSSAPI"},
		})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("valid config does not dial", func(t *testing.T) {
		producer, err := NewProducer(Config{
			Brokers:          []string{"localhost:9092"},
			Topic:            "order-events",
			CompressionCodec: "snappy",
			SASL:             SASLConfig{Enabled: true, Mechanism: "SCRAM-SHA-512", Username: "u", Password: "p"},
		})
		require.NoError(t, err)
		assert.Equal(t, "order-events", producer.Topic())
		assert.Equal(t, DefaultMaxAttempts, producer.cfg.MaxAttempts)
		assert.Equal(t, DefaultRequiredAcks, producer.cfg.RequiredAcks)
		assert.NoError(t, producer.Close())
	})
}

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	producer := newTestProducer(w)

	err := producer.Publish(context.Background(), []byte("order-1"), []byte(`{"id":"order-1"}`), map[string]string{
		"source":       "schemactl",
		"content-type": "application/json",
	})
	require.NoError(t, err)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, []byte("order-1"), msg.Key)
	assert.Equal(t, []byte(`{"id":"order-1"}`), msg.Value)
	assert.Equal(t, []kafka.Header{
		{Key: "content-type", Value: []byte("application/json")},
		{Key: "source", Value: []byte("schemactl")},
	}, msg.Headers)
}

func TestPublishWithSchema(t *testing.T) {
	w := &fakeWriter{}
	producer := newTestProducer(w)

	payload := []byte(`{"id":"order-1"}`)
	require.NoError(t, producer.PublishWithSchema(context.Background(), 42, nil, payload, nil))

	require.Len(t, w.messages, 1)
	value := w.messages[0].Value
	require.Len(t, value, 5+len(payload))
	assert.Equal(t, byte(0x00), value[0])
	assert.Equal(t, uint32(42), binary.BigEndian.Uint32(value[1:5]))
	assert.Equal(t, payload, value[5:])
	assert.Empty(t, w.messages[0].Headers)
}

func TestPublishErrors(t *testing.T) {
	t.Run("writer failure is wrapped", func(t *testing.T) {
		boom := errors.New("leader not available")
		producer := newTestProducer(&fakeWriter{err: boom})

		err := producer.Publish(context.Background(), nil, []byte("x"), nil)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "order-events")
	})

	t.Run("cancelled context", func(t *testing.T) {
		w := &fakeWriter{}
		producer := newTestProducer(w)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := producer.Publish(ctx, nil, []byte("x"), nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, w.messages)
	})

	t.Run("closed producer", func(t *testing.T) {
		w := &fakeWriter{}
		producer := newTestProducer(w)
		require.NoError(t, producer.Close())
		require.NoError(t, producer.Close())
		assert.Equal(t, 1, w.closed)

		err := producer.Publish(context.Background(), nil, []byte("x"), nil)
		assert.ErrorIs(t, err, ErrProducerClosed)
	})
}

func TestPublishObserver(t *testing.T) {
	var ops []observability.OperationContext
	producer := newTestProducer(&fakeWriter{}).WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		ops = append(ops, op)
	}))

	require.NoError(t, producer.Publish(context.Background(), nil, []byte("hello"), nil))

	require.Len(t, ops, 1)
	assert.Equal(t, "kafka", ops[0].Component)
	assert.Equal(t, "produce", ops[0].Operation)
	assert.Equal(t, "order-events", ops[0].Resource)
	assert.Equal(t, int64(5), ops[0].Size)
	assert.NoError(t, ops[0].Error)
}

func TestCreateSASLMechanism(t *testing.T) {
	for _, name := range []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"} {
		t.Run(name, func(t *testing.T) {
			mechanism, err := createSASLMechanism(SASLConfig{Mechanism: name, Username: "user", Password: "secret"})
			require.NoError(t, err)
			assert.Equal(t, name, mechanism.Name())
		})
	}
}
