package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
	"poupeai/statement-ingestion/internal/pipeline"

	amqp "github.com/rabbitmq/amqp091-go"
)

// consumeChannel is the part of *amqp.Channel the consumer uses.
type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
}

// JobRunner runs one ingestion job.
type JobRunner interface {
	Run(ctx context.Context, event models.IngestionEvent) (pipeline.Result, error)
}

// Recorder is told about every finished run.
type Recorder interface {
	Record(result pipeline.Result, err error)
}

// ConsumerConfig configures a Consumer.
type ConsumerConfig struct {
	Queue   string
	Tag     string
	Workers int
}

// Consumer reads ingestion jobs from a queue and runs each one on a pool of
// worker goroutines.
type Consumer struct {
	ch       consumeChannel
	cfg      ConsumerConfig
	runner   JobRunner
	recorder Recorder
	logger   logging.Logger

	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewConsumer creates a Consumer. recorder may be nil.
func NewConsumer(ch consumeChannel, cfg ConsumerConfig, runner JobRunner, recorder Recorder, logger logging.Logger) *Consumer {
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	return &Consumer{ch: ch, cfg: cfg, runner: runner, recorder: recorder, logger: logger}
}

// Start subscribes to the queue and launches the workers. It returns once
// they are running; use Stop to end consumption. Cancelling ctx only stops the
// workers from taking new deliveries: a job already running keeps its
// collaborators' calls alive until it reaches COMPLETED or FAILED.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return errors.New("consumer already started")
	}

	if err := c.ch.Qos(c.cfg.Workers, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}
	deliveries, err := c.ch.Consume(c.cfg.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", c.cfg.Queue, err)
	}

	for i := 0; i < c.cfg.Workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i, deliveries)
	}
	c.started = true

	c.logger.Info("Consumer started",
		logging.F(logging.FieldQueue, c.cfg.Queue),
		logging.F(logging.FieldCount, c.cfg.Workers))
	return nil
}

// Stop cancels the subscription and waits for in-flight jobs, or for ctx.
func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	started := c.started
	c.started = false
	c.mu.Unlock()
	if !started {
		return nil
	}

	if err := c.ch.Cancel(c.cfg.Tag, false); err != nil {
		c.logger.WithError(err).Warn("Failed to cancel consumer")
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Consumer stopped", logging.F(logging.FieldQueue, c.cfg.Queue))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer) worker(ctx context.Context, id int, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	logger := c.logger.WithField(logging.FieldWorker, id)

	jobCtx := context.WithoutCancel(ctx)
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.handleDelivery(jobCtx, logger, d)
		}
	}
}

// handleDelivery decodes and runs one job, then acks or dead-letters it.
// Jobs are never requeued.
func (c *Consumer) handleDelivery(ctx context.Context, logger logging.Logger, d amqp.Delivery) {
	logger = logger.WithField(logging.FieldMessageID, d.MessageId)

	var event models.IngestionEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		logger.WithError(err).Error("Discarding undecodable ingestion message")
		c.reject(logger, d)
		return
	}

	if err := event.Validate(); err != nil {
		if errors.Is(err, models.ErrNilPayload) {
			logger.Warn("Ingestion event has no payload, ignoring")
			c.ack(logger, d)
			return
		}
		logger.WithError(err).Error("Discarding invalid ingestion event")
		c.reject(logger, d)
		return
	}

	result, err := c.runJob(ctx, logger, event)
	if c.recorder != nil {
		c.recorder.Record(result, err)
	}
	if err != nil {
		logger.WithError(err).Error("Ingestion job failed",
			logging.F(logging.FieldJobID, event.Payload.JobID))
		c.reject(logger, d)
		return
	}
	c.ack(logger, d)
}

// runJob turns a panic in the runner into a failed run so one bad job cannot
// take down the other workers.
func (c *Consumer) runJob(ctx context.Context, logger logging.Logger, event models.IngestionEvent) (result pipeline.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic in ingestion job",
				logging.F(logging.FieldJobID, event.Payload.JobID),
				logging.F("panic", fmt.Sprint(r)),
				logging.F("stack", string(debug.Stack())))
			result = pipeline.Result{Final: pipeline.StageFailed}
			err = fmt.Errorf("ingestion job %s panicked: %v", event.Payload.JobID, r)
		}
	}()
	return c.runner.Run(ctx, event)
}

func (c *Consumer) ack(logger logging.Logger, d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		logger.WithError(err).Error("Failed to ack message")
	}
}

func (c *Consumer) reject(logger logging.Logger, d amqp.Delivery) {
	if err := d.Reject(false); err != nil {
		logger.WithError(err).Error("Failed to reject message")
	}
}
