// Package rabbit publishes messages to a RabbitMQ exchange.
//
// A Publisher holds one connection and one channel in confirm mode.
// RetryConnection re-dials with a fixed delay when the broker drops the
// connection; publishes made while it is down fail and are reported to the
// caller. Publish waits for the broker's confirm and reports a nack as
// ErrMessageNacked. Messages are persistent, carry the caller's key as the
// AMQP message id and its headers as message headers.
//
// # Configuration
//
// Config is populated from RABBITMQ_* environment variables through
// caarlos0/env tags:
//
//	RABBITMQ_HOST=rabbitmq
//	RABBITMQ_EXCHANGE=users
//	RABBITMQ_ROUTING_KEY=user.events
//	RABBITMQ_DECLARE_EXCHANGE=true
//
// # FX Module
//
// FXModule provides *Publisher, starts RetryConnection when the application
// starts and closes the publisher when it stops. A logger.Logger and an
// observability.Observer are injected when present.
package rabbit
