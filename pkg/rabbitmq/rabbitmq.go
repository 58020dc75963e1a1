package rabbitmq

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"resumebuilder/internal/logger"

	"github.com/oklog/ulid/v2"
	amqp "github.com/streadway/amqp"
)

const (
	EventResumeCreated = "resume.created"
	EventResumeDeleted = "resume.deleted"
)

// ResumeEvent is the body of every message published on the resume exchange.
type ResumeEvent struct {
	Type       string    `json:"type"`
	ResumeID   string    `json:"resumeId"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *logger.Logger

	// amqp channels are not safe for concurrent publishing.
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// topic exchange resume events go to.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = "resume"
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

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log.Info("RabbitMQ client connected", "exchange", cfg.Exchange)

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		log:      log,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}, nil
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
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishResumeEvent publishes evt with its type as routing key.
func (c *Client) PublishResumeEvent(ctx context.Context, evt ResumeEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msg, err := NewPublishing(evt, ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String())
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		c.exchange, // exchange
		evt.Type,   // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	c.log.Debug("published resume event", "type", evt.Type, "resume_id", evt.ResumeID, "message_id", msg.MessageId)
	return nil
}

// NewPublishing encodes evt as a persistent JSON message.
func NewPublishing(evt ResumeEvent, messageID string) (amqp.Publishing, error) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal resume event to JSON: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         evt.Type,
		MessageId:    messageID,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.OccurredAt,
	}, nil
}

// ConsumeResumeEvents binds queue to the exchange for every routing key in
// keys and hands each decoded event to handler. Successful messages are
// acked; failures are nacked and requeued once.
func (c *Client) ConsumeResumeEvents(queue string, keys []string, handler func(ResumeEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	q, err := c.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}
	for _, key := range keys {
		if err := c.channel.QueueBind(q.Name, key, c.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", q.Name, key, err)
		}
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("waiting for resume events", "queue", q.Name, "keys", keys)

	go func() {
		for msg := range msgs {
			HandleDelivery(msg, handler, c.log)
		}
	}()

	return nil
}

// HandleDelivery decodes one delivery, runs handler and settles the message.
// Undecodable bodies are dropped; handler errors requeue the message unless
// it has already been redelivered.
func HandleDelivery(msg amqp.Delivery, handler func(ResumeEvent) error, log *logger.Logger) {
	var evt ResumeEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		log.Warn("dropping malformed resume event", "delivery_tag", msg.DeliveryTag, "error", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Error("error nacking message", "delivery_tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if evt.Type == "" {
		evt.Type = msg.RoutingKey
	}

	if err := handler(evt); err != nil {
		log.Error("error processing resume event", "type", evt.Type, "resume_id", evt.ResumeID, "error", err)
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			log.Error("error nacking message", "delivery_tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Error("error acking message", "delivery_tag", msg.DeliveryTag, "error", ackErr)
	}
}
