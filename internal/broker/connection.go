// Package broker moves ingestion jobs and notifications over RabbitMQ.
package broker

import (
	"fmt"

	"poupeai/statement-ingestion/internal/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection owns the AMQP connection and the two channels the service uses:
// one for consuming jobs and one for publishing notifications.
type Connection struct {
	conn      *amqp.Connection
	consumeCh *amqp.Channel
	publishCh *amqp.Channel
	logger    logging.Logger
}

// Dial connects to url and opens the consume and publish channels. The job
// queue is declared durable so the worker can start before the producer.
func Dial(url, queue string, logger logging.Logger) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	consumeCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open consume channel: %w", err)
	}
	publishCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	if queue != "" {
		if _, err := consumeCh.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
	}

	logger.Info("Connected to broker", logging.F(logging.FieldQueue, queue))
	return &Connection{conn: conn, consumeCh: consumeCh, publishCh: publishCh, logger: logger}, nil
}

// ConsumeChannel returns the channel jobs are consumed from.
func (c *Connection) ConsumeChannel() *amqp.Channel { return c.consumeCh }

// PublishChannel returns the channel notifications are published on.
func (c *Connection) PublishChannel() *amqp.Channel { return c.publishCh }

// Close closes both channels and the connection.
func (c *Connection) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}
