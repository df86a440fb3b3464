package pipeline

import (
	"context"
	"io"

	"poupeai/statement-ingestion/internal/models"
)

// ObjectStore fetches statement files by key. The caller closes the stream.
type ObjectStore interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// CategoryProvider lists the categories a profile can use.
type CategoryProvider interface {
	GetCategories(ctx context.Context, profileID string) ([]models.Category, error)
}

// CategorizationPredictor suggests a category for each description.
type CategorizationPredictor interface {
	Predict(ctx context.Context, descriptions []string, categories []models.Category) ([]models.Prediction, error)
}

// TransactionSink persists a batch of transactions in one call.
type TransactionSink interface {
	CreateBatch(ctx context.Context, txs []models.PersistableTransaction) error
}

// JobStatusUpdater reports job progress to the core service.
type JobStatusUpdater interface {
	UpdateStatus(ctx context.Context, jobID string, update models.JobStatusUpdate) error
}

// Notifier publishes the user-facing outcome of a run.
type Notifier interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
}
