package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"

	"catalog/internal/models"
)

// DefaultQueue is used when Config.Queue is empty.
const DefaultQueue = "product_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     zerolog.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the product
// events queue.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info().Str("queue", queue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
		log:     log,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", name, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishProductEvent publishes a persistent JSON message to the queue.
func (c *Client) PublishProductEvent(_ context.Context, event models.ProductEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	// Default exchange; the routing key is the queue name.
	if err := c.channel.Publish("", c.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.log.Debug().Str("event_id", event.EventID).Str("type", event.Type).Msg("product event published")
	return nil
}

func newPublishing(event models.ProductEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal product event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

// EventHandler processes one decoded product event.
type EventHandler func(event models.ProductEvent) error

// ConsumeProductEvents starts a goroutine delivering queued events to handler.
// Messages are acked when handler returns nil. Undecodable messages are
// dropped; handler failures are requeued.
func (c *Client) ConsumeProductEvents(handler EventHandler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			ack, requeue := c.dispatch(msg.Body, handler)
			if ack {
				if err := msg.Ack(false); err != nil {
					c.log.Error().Err(err).Uint64("tag", msg.DeliveryTag).Msg("failed to ack message")
				}
				continue
			}
			if err := msg.Nack(false, requeue); err != nil {
				c.log.Error().Err(err).Uint64("tag", msg.DeliveryTag).Msg("failed to nack message")
			}
		}
	}()

	return nil
}

// dispatch decodes body and runs handler, reporting whether to ack and, if
// not, whether to requeue.
func (c *Client) dispatch(body []byte, handler EventHandler) (ack, requeue bool) {
	var event models.ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.Error().Err(err).Msg("dropping undecodable product event")
		return false, false
	}
	if err := handler(event); err != nil {
		c.log.Error().Err(err).Str("event_id", event.EventID).Msg("failed to process product event")
		return false, true
	}
	return true, false
}

// LogProductEvent is an EventHandler that records each event.
func LogProductEvent(log zerolog.Logger) EventHandler {
	return func(event models.ProductEvent) error {
		e := log.Info().Str("event_id", event.EventID).Str("type", event.Type)
		if event.Product.Name != nil {
			e = e.Str("product_name", *event.Product.Name)
		}
		e.Msg("product event received")
		return nil
	}
}
