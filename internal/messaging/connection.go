package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rabbitmq/amqp091-go"

	"hotel-services/internal/config"
	"hotel-services/internal/logger"
)

const (
	QueueNotifications = "notifications"
	QueueBilling       = "billing"
	QueueOnboarding    = "onboarding"

	connectAttempts = 5
)

var (
	// ErrNotConnected is returned by Publish while the broker link is down.
	ErrNotConnected = errors.New("rabbitmq connection is not available")
	// ErrConnectionClosed is returned when reconnecting a connection that was closed.
	ErrConnectionClosed = errors.New("rabbitmq connection closed")
)

// Binding attaches a queue to the exchange under a routing pattern
type Binding struct {
	Queue      string
	RoutingKey string
}

// Bindings is the queue layout declared on every (re)connect.
var Bindings = []Binding{
	{QueueNotifications, "#"},
	{QueueBilling, "order.*"},
	{QueueBilling, "amenity.completed"},
	{QueueBilling, "payment.*"},
	{QueueOnboarding, "guest.*"},
	{QueueOnboarding, "table.reserved"},
}

// Connection wraps RabbitMQ connection with reconnection logic
type Connection struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	closed       bool
	reconnecting atomic.Bool
	dial         func() (*amqp091.Connection, *amqp091.Channel, error)
	logger       *logger.Logger
	url          string
	exchange     string
}

// New creates a new RabbitMQ connection and declares the topology
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Connection, error) {
	c := &Connection{
		logger:   log,
		url:      cfg.RabbitMQURL(),
		exchange: cfg.RabbitMQ.Exchange,
	}
	c.dial = c.dialBroker

	if err := c.connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

// Exchange returns the name of the topic exchange events are published to
func (c *Connection) Exchange() string {
	return c.exchange
}

type handles struct {
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

// connect dials RabbitMQ, retrying with exponential backoff. The lock is only
// taken to swap the new handles in.
func (c *Connection) connect(ctx context.Context) error {
	attempt := func() (handles, error) {
		conn, ch, err := c.dial()
		return handles{conn, ch}, err
	}

	h, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(connectAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", wait),
				"startup", err, nil)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", connectAttempts, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		closeHandles(h.conn, h.ch)
		return ErrConnectionClosed
	}
	c.close()
	c.conn, c.channel = h.conn, h.ch
	return nil
}

func (c *Connection) dialBroker() (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := setupTopology(ch, c.exchange); err != nil {
		c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", err, nil)
		closeHandles(conn, ch)
		return nil, nil, err
	}
	return conn, ch, nil
}

func closeHandles(conn *amqp091.Connection, ch *amqp091.Channel) {
	if ch != nil {
		ch.Close()
	}
	if conn != nil {
		conn.Close()
	}
}

// setupTopology declares the topic exchange, the durable queues and their bindings
func setupTopology(ch *amqp091.Channel, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", exchange, err)
	}

	declared := make(map[string]bool)
	for _, b := range Bindings {
		if !declared[b.Queue] {
			_, err = ch.QueueDeclare(
				b.Queue, // name
				true,    // durable
				false,   // delete when unused
				false,   // exclusive
				false,   // no-wait
				nil,     // arguments
			)
			if err != nil {
				return fmt.Errorf("failed to declare queue %s: %w", b.Queue, err)
			}
			declared[b.Queue] = true
		}

		if err := ch.QueueBind(b.Queue, b.RoutingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s with routing key %s: %w", b.Queue, b.RoutingKey, err)
		}
	}
	return nil
}

// Channel returns the current channel
func (c *Connection) Channel() *amqp091.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// Close closes the channel and the connection. A closed Connection is never
// reconnected.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && err != amqp091.ErrClosed {
			return err
		}
	}
	return nil
}

// IsClosed checks if the connection is closed
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed()
}

// Reconnect drops the current connection and dials again
func (c *Connection) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	c.close()
	c.mu.Unlock()

	return c.connect(ctx)
}

// reconnectInBackground starts a Reconnect unless one is already running.
func (c *Connection) reconnectInBackground() {
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.reconnecting.Store(false)
		err := c.Reconnect(context.Background())
		switch {
		case errors.Is(err, ErrConnectionClosed):
			return
		case err != nil:
			c.logger.Error("rabbitmq_reconnect_failed", "Background reconnect to RabbitMQ failed", "", err, nil)
			return
		}
		c.logger.Info("rabbitmq_reconnected", "Reconnected to RabbitMQ", "", nil)
	}()
}
