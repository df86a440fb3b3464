package container

import (
	"context"
	"errors"
	"fmt"

	"poupeai/statement-ingestion/internal/broker"
	"poupeai/statement-ingestion/internal/health"
	"poupeai/statement-ingestion/internal/logging"
)

// Worker is the long-running consumer process: broker connection, job
// consumer and the optional health server.
type Worker struct {
	conn     *broker.Connection
	consumer *broker.Consumer
	health   *health.Server
	address  string
	logger   logging.Logger
}

// NewWorker connects to the broker and wires the consumer to a pipeline runner
// that publishes notifications on the same connection.
func (c *Container) NewWorker() (*Worker, error) {
	cfg := c.config.Broker
	conn, err := broker.Dial(cfg.URL, cfg.Queue, c.logger)
	if err != nil {
		return nil, err
	}

	publisher := broker.NewPublisher(conn.PublishChannel(), cfg.NotificationsExchange, cfg.NotificationsKey, c.logger)
	runner, err := c.NewRunner(publisher)
	if err != nil {
		conn.Close()
		return nil, err
	}

	consumer := broker.NewConsumer(conn.ConsumeChannel(), broker.ConsumerConfig{
		Queue:   cfg.Queue,
		Tag:     cfg.ConsumerTag,
		Workers: cfg.Workers,
	}, runner, c.stats, c.logger)

	w := &Worker{conn: conn, consumer: consumer, logger: c.logger}
	if c.config.Health.Enabled {
		w.address = c.config.Health.Address
		w.health = health.NewServer(c.stats, map[string]health.ReadinessCheck{
			"broker": func() error {
				if conn.ConsumeChannel().IsClosed() {
					return errors.New("broker channel closed")
				}
				return nil
			},
		}, c.logger)
	}
	return w, nil
}

// Start begins consuming and serving health checks. Health server failures are
// logged and do not stop the worker.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.consumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	if w.health != nil {
		go func() {
			if err := w.health.Listen(w.address); err != nil {
				w.logger.WithError(err).Error("Health server stopped")
			}
		}()
	}
	return nil
}

// Stop drains in-flight jobs and closes the broker connection.
func (w *Worker) Stop(ctx context.Context) error {
	var errs []error
	if err := w.consumer.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if w.health != nil {
		if err := w.health.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := w.conn.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
