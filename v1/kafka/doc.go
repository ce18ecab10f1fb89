// Package kafka provides a small Kafka producer on top of segmentio/kafka-go.
//
// It publishes raw byte payloads or Confluent wire-format payloads (magic
// byte, 4-byte schema id, JSON body) to a single topic, with optional
// compression, TLS and SASL.
//
// Basic Usage:
//
//	producer, err := kafka.NewProducer(kafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "order-events",
//	})
//	if err != nil {
//	    return err
//	}
//	defer producer.Close()
//
//	err = producer.PublishWithSchema(ctx, schemaID, []byte("order-1"), payload, map[string]string{
//	    "content-type": "application/json",
//	})
//
// Observability:
//
// Attach an observability.Observer with WithObserver to be notified of every
// produce call (component "kafka", operation "produce", resource = topic).
package kafka
