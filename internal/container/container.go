// Package container provides dependency injection for the ingestion service.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"
	"time"

	"poupeai/statement-ingestion/internal/categorizer"
	"poupeai/statement-ingestion/internal/common"
	"poupeai/statement-ingestion/internal/config"
	"poupeai/statement-ingestion/internal/coreclient"
	"poupeai/statement-ingestion/internal/health"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
	"poupeai/statement-ingestion/internal/ofxparser"
	"poupeai/statement-ingestion/internal/pipeline"
	"poupeai/statement-ingestion/internal/reportclient"
	"poupeai/statement-ingestion/internal/storage"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods. Broker-bound parts are created later by
// NewWorker so that the container can be built without a running broker.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	store     pipeline.ObjectStore
	core      *coreclient.Client
	predictor pipeline.CategorizationPredictor
	parser    *ofxparser.Parser
	stats     *health.Stats
	closers   []io.Closer
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	if len(cfg.CSV.Delimiter) == 1 {
		common.SetDelimiter(rune(cfg.CSV.Delimiter[0]))
	}

	c := &Container{
		logger: logger,
		config: cfg,
		stats:  health.NewStats(),
	}

	store, err := c.newObjectStore(ctx)
	if err != nil {
		return nil, err
	}
	c.store = store

	serviceTimeout := time.Duration(cfg.Services.TimeoutSeconds) * time.Second
	c.core = coreclient.New(cfg.Services.CoreURL, cfg.Services.APIKey, serviceTimeout, logger)

	predictor, err := c.newPredictor(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.predictor = predictor

	c.parser = ofxparser.New(logger, ofxparser.WithCharsetDetection(cfg.Parsers.OFX.CharsetDetection))

	logger.Info("Container initialized successfully",
		logging.F("storage_provider", cfg.Storage.Provider),
		logging.F("ai_provider", cfg.AI.Provider))
	return c, nil
}

func (c *Container) newObjectStore(ctx context.Context) (pipeline.ObjectStore, error) {
	cfg := c.config.Storage
	switch cfg.Provider {
	case config.StorageLocal:
		return storage.NewLocalStore(cfg.LocalDir, c.logger)
	case config.StorageGCS:
		gcs, err := storage.NewGCSStore(ctx, cfg.Bucket, cfg.Endpoint, c.logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, gcs)
		return gcs, nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

func (c *Container) newPredictor(ctx context.Context) (pipeline.CategorizationPredictor, error) {
	cfg := c.config
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second

	switch cfg.AI.Provider {
	case config.AIProviderReport:
		c.logger.Info("AI categorization through the report service")
		return reportclient.New(cfg.Services.ReportURL, cfg.Services.APIKey, timeout, c.logger), nil
	case config.AIProviderGemini:
		gemini, err := categorizer.NewGeminiPredictor(ctx, cfg.AI.APIKey, cfg.AI.Model, c.logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, gemini)
		c.logger.Info("AI categorization through Gemini", logging.F("model", cfg.AI.Model))
		return &timeoutPredictor{next: gemini, timeout: timeout}, nil
	case config.AIProviderNone:
		c.logger.Info("AI categorization disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.AI.Provider)
	}
}

// timeoutPredictor bounds each prediction call.
type timeoutPredictor struct {
	next    pipeline.CategorizationPredictor
	timeout time.Duration
}

func (p *timeoutPredictor) Predict(ctx context.Context, descriptions []string, categories []models.Category) ([]models.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.Predict(ctx, descriptions, categories)
}

// NewRunner builds a pipeline runner that notifies through notifier.
func (c *Container) NewRunner(notifier pipeline.Notifier) (*pipeline.Runner, error) {
	return pipeline.New(pipeline.Dependencies{
		Store:      c.store,
		Parser:     c.parser,
		Categories: c.core,
		Predictor:  c.predictor,
		Sink:       c.core,
		Status:     c.core,
		Notifier:   notifier,
		Logger:     c.logger,
	})
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetStats returns the run counters shared by the worker and the health server.
func (c *Container) GetStats() *health.Stats {
	return c.stats
}

// Close releases the clients the container created.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	c.logger.Debug("Container closed")
	return firstErr
}
