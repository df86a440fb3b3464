package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishChannel is the part of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends notification events to an exchange. Safe for concurrent use.
type Publisher struct {
	mu         sync.Mutex
	ch         publishChannel
	exchange   string
	routingKey string
	logger     logging.Logger
}

// NewPublisher creates a Publisher for exchange and routingKey.
func NewPublisher(ch publishChannel, exchange, routingKey string, logger logging.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, routingKey: routingKey, logger: logger}
}

// Publish sends event as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, event models.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.MessageID,
		Timestamp:    event.Timestamp,
		Type:         event.EventType,
		Body:         body,
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish notification to %s/%s: %w", p.exchange, p.routingKey, err)
	}

	p.logger.Info("Notification published",
		logging.F(logging.FieldNotifyEvent, event.EventType),
		logging.F(logging.FieldRecipient, event.Recipient.UserID),
		logging.F(logging.FieldMessageID, event.MessageID))
	return nil
}
