// Package events publishes violation outcomes to RabbitMQ so other services
// (dashboards, emergency contact notifiers) can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ViolationDetected is the routing key of ViolationEvent messages
const ViolationDetected = "violation.detected"

// ViolationEvent is published once per assessed image
type ViolationEvent struct {
	EventID        string    `json:"eventId"`
	Type           string    `json:"type"`
	RiderID        string    `json:"riderId"`
	UniqueKey      string    `json:"uniqueKey"`
	InstanceID     string    `json:"instanceId"`
	ChallanID      string    `json:"challanId,omitempty"`
	Amount         int       `json:"amount"`
	HelmetDetected bool      `json:"helmetDetected"`
	Speeding       bool      `json:"speeding"`
	Violation      bool      `json:"violation"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher sends violation events somewhere
type Publisher interface {
	PublishViolation(ctx context.Context, event ViolationEvent) error
	Close() error
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher handles message publishing to RabbitMQ
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
}

// NewAMQPPublisher dials url and declares a durable topic exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// PublishViolation publishes event as a persistent JSON message
func (p *AMQPPublisher) PublishViolation(ctx context.Context, event ViolationEvent) error {
	if event.Type == "" {
		event.Type = ViolationDetected
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		event.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	zap.S().Debugw("published violation event",
		"routing_key", event.Type,
		"rider_id", event.RiderID,
		"instance_id", event.InstanceID,
	)
	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher drops every event. Used when RABBITMQ_URL is not configured.
type NopPublisher struct{}

// PublishViolation does nothing
func (NopPublisher) PublishViolation(context.Context, ViolationEvent) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
