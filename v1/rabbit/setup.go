package rabbit

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	publishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	Close() error
}

// connection is the part of *amqp.Connection the publisher uses.
type connection interface {
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	IsClosed() bool
	Close() error
}

// confirmation is the broker's pending answer to one publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// confirmChannel adapts an *amqp.Channel in confirm mode to channel.
type confirmChannel struct {
	*amqp.Channel
}

func (c confirmChannel) publishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		// channel is not in confirm mode
		return nil, nil
	}
	return dc, nil
}

// Publisher publishes messages to one RabbitMQ exchange. The connection is
// re-established by RetryConnection when the broker drops it.
type Publisher struct {
	// cfg stores the configuration for this publisher
	cfg Config

	// mu guards conn, channel and closed; reconnection swaps them
	mu      sync.RWMutex
	conn    connection
	channel channel
	closed  bool

	// dial opens a connection and a confirm-mode channel
	dial func(cfg Config) (connection, channel, error)

	// shutdownSignal is closed when the publisher is being shut down
	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once

	logger   Logger
	observer observability.Observer

	now func() time.Time
}

// NewPublisher connects to RabbitMQ and opens a publishing channel in
// confirm mode. When cfg.Channel.DeclareExchange is set the exchange is
// declared durable.
//
// Example:
//
//	pub, err := rabbit.NewPublisher(rabbit.Config{
//	    Connection: rabbit.Connection{Host: "localhost", User: "guest", Password: "guest"},
//	    Channel:    rabbit.Channel{ExchangeName: "users", RoutingKey: "user.events"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer pub.Close()
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg = applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}

	conn, ch, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		cfg:            cfg,
		conn:           conn,
		channel:        ch,
		dial:           dial,
		shutdownSignal: make(chan struct{}),
		now:            time.Now,
	}, nil
}

// WithLogger attaches a logger for connection lifecycle events.
func (p *Publisher) WithLogger(l Logger) *Publisher {
	p.logger = l
	return p
}

// WithObserver attaches an observer notified after every publish.
func (p *Publisher) WithObserver(observer observability.Observer) *Publisher {
	p.observer = observer
	return p
}

// Publish sends value to the configured exchange and routing key and waits
// for the broker to confirm it. key becomes the AMQP message id and headers
// become message headers. Messages are marked persistent. A nack from the
// broker is reported as ErrMessageNacked.
func (p *Publisher) Publish(ctx context.Context, key, value []byte, headers map[string]string) (err error) {
	start := time.Now()
	defer func() {
		p.observeOperation("produce", time.Since(start), err, int64(len(value)))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	table := make(amqp.Table, len(headers))
	for k, v := range headers {
		table[k] = v
	}
	msg := amqp.Publishing{
		Headers:      table,
		ContentType:  p.cfg.Channel.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    string(key),
		Timestamp:    p.now().UTC(),
		Body:         value,
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	confirm, err := p.channel.publishConfirmed(ctx, p.cfg.Channel.ExchangeName, p.cfg.Channel.RoutingKey, msg)
	p.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %q: %w", p.cfg.Channel.ExchangeName, err)
	}
	if confirm == nil {
		return nil
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to await confirmation from exchange %q: %w", p.cfg.Channel.ExchangeName, err)
	}
	if !acked {
		return fmt.Errorf("%w by exchange %q", ErrMessageNacked, p.cfg.Channel.ExchangeName)
	}
	return nil
}

// RetryConnection watches the connection and re-establishes it, along with
// the publishing channel, whenever the broker closes it. It returns once
// Close is called. Run it in its own goroutine.
func (p *Publisher) RetryConnection() {
	for {
		p.mu.RLock()
		conn := p.conn
		p.mu.RUnlock()
		if conn == nil {
			return
		}

		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-p.shutdownSignal:
			return
		case amqpErr := <-closed:
			if amqpErr == nil {
				// graceful close, not a broker failure
				return
			}
			p.logWarn("RabbitMQ connection closed, reconnecting", amqpErr)
		}

		if !p.reconnect() {
			return
		}
	}
}

// reconnect dials until it succeeds or the publisher shuts down.
func (p *Publisher) reconnect() bool {
	for {
		select {
		case <-p.shutdownSignal:
			return false
		default:
		}

		conn, ch, err := p.dial(p.cfg)
		if err == nil {
			p.mu.Lock()
			if p.closed {
				p.mu.Unlock()
				_ = ch.Close()
				_ = conn.Close()
				return false
			}
			if p.channel != nil {
				_ = p.channel.Close()
			}
			p.conn = conn
			p.channel = ch
			p.mu.Unlock()

			p.logInfo("Reconnected to RabbitMQ")
			return true
		}
		p.logError("RabbitMQ reconnection failed", err)

		select {
		case <-p.shutdownSignal:
			return false
		case <-time.After(p.cfg.Channel.DelayToReconnect):
		}
	}
}

// Close stops RetryConnection and closes the channel and connection.
// Later calls are no-ops.
func (p *Publisher) Close() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

func applyDefaults(cfg Config) Config {
	if cfg.Connection.Port == 0 {
		cfg.Connection.Port = DefaultPort
	}
	if cfg.Channel.ContentType == "" {
		cfg.Channel.ContentType = DefaultContentType
	}
	if cfg.Channel.DelayToReconnect <= 0 {
		cfg.Channel.DelayToReconnect = DefaultDelayToReconnect
	}
	return cfg
}

func validate(cfg Config) error {
	if cfg.Connection.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if cfg.Connection.UseCert && !cfg.Connection.IsSSLEnabled {
		return fmt.Errorf("%w: client certificates require SSL", ErrInvalidConfig)
	}
	if cfg.Channel.DeclareExchange && cfg.Channel.ExchangeName == "" {
		return fmt.Errorf("%w: cannot declare the default exchange", ErrInvalidConfig)
	}
	return nil
}

// connectionURL builds the amqp or amqps URL for cfg.
func connectionURL(cfg Connection) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.FormatUint(uint64(cfg.Port), 10),
		Path:   "/",
	}
	if cfg.IsSSLEnabled {
		u.Scheme = "amqps"
	}
	if cfg.VHost != "" && cfg.VHost != "/" {
		u.Path = "/" + cfg.VHost
	}
	return u.String()
}

// tlsConfig returns nil when SSL is off. With SSL on, a CA file replaces
// the system roots and UseCert adds the client key pair.
func tlsConfig(cfg Connection) (*tls.Config, error) {
	if !cfg.IsSSLEnabled {
		return nil, nil
	}

	tc := &tls.Config{
		ServerName: cfg.ServerName,
		MinVersion: tls.VersionTLS12,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("%w: no certificates in %s", ErrInvalidConfig, cfg.CACertPath)
		}
		tc.RootCAs = pool
	}

	if cfg.UseCert {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}
	return tc, nil
}

// newConnection dials RabbitMQ with a short heartbeat so dropped
// connections are noticed quickly.
func newConnection(cfg Config) (*amqp.Connection, error) {
	tc, err := tlsConfig(cfg.Connection)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(connectionURL(cfg.Connection), amqp.Config{
		Heartbeat:       DefaultHeartbeat,
		TLSClientConfig: tc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s:%d: %w", cfg.Connection.Host, cfg.Connection.Port, err)
	}
	return conn, nil
}

// dial connects and opens the publishing channel, closing the connection
// when the channel cannot be set up.
func dial(cfg Config) (connection, channel, error) {
	conn, err := newConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	ch, err := openChannel(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, confirmChannel{ch}, nil
}

// openChannel opens a channel in confirm mode and declares the exchange
// when asked to.
func openChannel(conn *amqp.Connection, cfg Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if cfg.Channel.DeclareExchange {
		err = ch.ExchangeDeclare(
			cfg.Channel.ExchangeName,
			cfg.Channel.ExchangeType,
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to declare exchange %q: %w", cfg.Channel.ExchangeName, err)
		}
	}
	return ch, nil
}

func (p *Publisher) logInfo(msg string) {
	if p.logger != nil {
		p.logger.InfoWithContext(context.Background(), msg, nil, p.logFields())
	}
}

func (p *Publisher) logWarn(msg string, err error) {
	if p.logger != nil {
		p.logger.WarnWithContext(context.Background(), msg, err, p.logFields())
	}
}

func (p *Publisher) logError(msg string, err error) {
	if p.logger != nil {
		p.logger.ErrorWithContext(context.Background(), msg, err, p.logFields())
	}
}

func (p *Publisher) logFields() map[string]interface{} {
	return map[string]interface{}{
		"host":     p.cfg.Connection.Host,
		"exchange": p.cfg.Channel.ExchangeName,
	}
}
