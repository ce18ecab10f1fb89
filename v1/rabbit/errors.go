package rabbit

import (
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrInvalidConfig is returned by NewPublisher when the configuration
	// cannot describe a connection.
	ErrInvalidConfig = errors.New("rabbit: invalid configuration")

	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("rabbit: publisher closed")

	// ErrMessageNacked is returned by Publish when the broker rejects the
	// message instead of confirming it.
	ErrMessageNacked = errors.New("rabbit: message nacked")
)

// IsConnectionError reports whether err means the connection or channel
// went away, so the publish may succeed once RetryConnection reconnects.
func IsConnectionError(err error) bool {
	if errors.Is(err, amqp.ErrClosed) {
		return true
	}
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		switch amqpErr.Code {
		case amqp.ConnectionForced, amqp.ChannelError, amqp.FrameError, amqp.InternalError:
			return true
		}
		return amqpErr.Recover
	}
	return false
}
