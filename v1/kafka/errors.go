package kafka

import "errors"

var (
	// ErrInvalidConfig is returned by NewProducer when brokers or topic are
	// missing, or a codec or SASL mechanism is unknown.
	ErrInvalidConfig = errors.New("invalid kafka config")

	// ErrProducerClosed is returned by Publish after Close.
	ErrProducerClosed = errors.New("kafka producer closed")
)
