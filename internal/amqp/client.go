package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client wraps one connection and one channel over a direct exchange with a
// single bound queue. The routing key equals the queue name.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.declareTopology(); err != nil {
		client.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return client, nil
}

// declareTopology declares the exchange and queue as durable and binds them.
// Declarations are idempotent, so server and worker can both run this.
func (c *Client) declareTopology() error {
	if err := c.channel.ExchangeDeclare(c.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := c.channel.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishChange publishes a change notification for one user stream.
func (c *Client) PublishChange(ctx context.Context, owner, stream, reason string) error {
	msg := NewChangeMessage(owner, stream, reason)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Change event published",
		"owner", owner,
		"stream", stream,
		"reason", reason)

	return nil
}

// ConsumeChanges consumes change messages until ctx is cancelled, invoking
// handler for each. A failed handler call leaves the message on the queue.
func (c *Client) ConsumeChanges(ctx context.Context, handler func(*ChangeMessage) error) error {
	// Manual ack: a delivery is acknowledged only after the handler returns.
	msgs, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Consuming change events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Consumer stopping", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, delivery amqp091.Delivery, handler func(*ChangeMessage) error) {
	msg, err := ChangeMessageFromJSON(delivery.Body)
	if err != nil {
		// Undecodable payloads would fail forever; drop without requeue.
		slog.ErrorContext(ctx, "Dropping undecodable message", "error", err)
		delivery.Nack(false, false)
		return
	}

	if err := handler(msg); err != nil {
		slog.ErrorContext(ctx, "Change handler failed, requeueing",
			"error", err,
			"owner", msg.Owner,
			"stream", msg.Stream)
		delivery.Nack(false, true)
		return
	}

	delivery.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
