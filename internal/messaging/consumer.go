package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"hotel-services/internal/logger"
	"hotel-services/internal/models"
)

// EventHandler processes one decoded event
type EventHandler func(ctx context.Context, event *models.Event) error

var errUndecodable = errors.New("undecodable message")

// Consumer handles message consumption from RabbitMQ
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
}

// NewConsumer creates a consumer for queueName. Deliveries are processed one
// at a time.
func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
	}
}

// Subscribe consumes the queue until ctx is cancelled. Handler failures are
// logged and the loop keeps going; a closed delivery channel triggers a
// reconnect.
func (c *Consumer) Subscribe(ctx context.Context, handler EventHandler) error {
	for {
		msgs, err := c.consume(ctx)
		if err != nil {
			return err
		}

		c.logger.Info("consumer_started",
			fmt.Sprintf("Started consuming from queue %s", c.queueName),
			"", map[string]interface{}{
				"queue":    c.queueName,
				"consumer": c.consumerTag,
			})

		if err := c.drain(ctx, msgs, handler); err != nil {
			return err
		}

		c.logger.Error("consumer_channel_closed", "Message channel closed, attempting to reconnect", "", nil, nil)
		if err := c.conn.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect after channel closed: %w", err)
		}
	}
}

func (c *Consumer) consume(ctx context.Context) (<-chan amqp091.Delivery, error) {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(ctx); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	ch := c.conn.Channel()
	if ch == nil {
		return nil, ErrNotConnected
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,   // queue
		c.consumerTag, // consumer
		false,         // auto-ack (we'll ack manually)
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}

// drain processes deliveries until msgs closes (nil error) or ctx ends.
func (c *Consumer) drain(ctx context.Context, msgs <-chan amqp091.Delivery, handler EventHandler) error {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer_stopped", "Consumer stopped by context", "", nil)
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

// processMessage runs handler for one delivery and settles it on every exit
// path: ack on success, nack with requeue on handler error or panic, nack
// without requeue when the body cannot be decoded.
func (c *Consumer) processMessage(ctx context.Context, delivery amqp091.Delivery, handler EventHandler) {
	start := time.Now()
	requestID := logger.GenerateRequestID()

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
		c.settle(delivery, err, time.Since(start), requestID)
	}()

	var event models.Event
	if jsonErr := json.Unmarshal(delivery.Body, &event); jsonErr != nil {
		err = fmt.Errorf("%w: %v", errUndecodable, jsonErr)
		return
	}

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err = handler(processingCtx, &event)
}

func (c *Consumer) settle(delivery amqp091.Delivery, err error, duration time.Duration, requestID string) {
	fields := map[string]interface{}{
		"queue":        c.queueName,
		"routing_key":  delivery.RoutingKey,
		"duration_ms":  duration.Milliseconds(),
		"delivery_tag": delivery.DeliveryTag,
	}

	if err == nil {
		c.logger.Debug("message_processed", "Successfully processed message", requestID, fields)
		if ackErr := delivery.Ack(false); ackErr != nil {
			c.logger.Error("message_ack_failed", "Failed to ack message", requestID, ackErr, fields)
		}
		return
	}

	requeue := !errors.Is(err, errUndecodable)
	fields["requeue"] = requeue
	c.logger.Error("message_processing_failed", "Failed to process message", requestID, err, fields)
	if nackErr := delivery.Nack(false, requeue); nackErr != nil {
		c.logger.Error("message_nack_failed", "Failed to nack message", requestID, nackErr, fields)
	}
}

// Close cancels the consumer on the broker
func (c *Consumer) Close() error {
	if c.conn == nil {
		return nil
	}
	ch := c.conn.Channel()
	if ch == nil || ch.IsClosed() {
		return nil
	}
	if err := ch.Cancel(c.consumerTag, false); err != nil {
		c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", err, nil)
		return err
	}
	return nil
}
