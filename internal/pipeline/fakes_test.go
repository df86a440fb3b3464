package pipeline

import (
	"context"
	"io"
	"strings"
	"sync"

	"poupeai/statement-ingestion/internal/models"
)

type trackedReader struct {
	io.Reader
	closed bool
}

func (r *trackedReader) Close() error {
	r.closed = true
	return nil
}

type fakeStore struct {
	content string
	err     error
	stream  *trackedReader
}

func (s *fakeStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.stream = &trackedReader{Reader: strings.NewReader(s.content)}
	return s.stream, nil
}

type fakeCategories struct {
	categories []models.Category
	err        error
	calls      int
}

func (f *fakeCategories) GetCategories(ctx context.Context, profileID string) ([]models.Category, error) {
	f.calls++
	return f.categories, f.err
}

type fakePredictor struct {
	predictions []models.Prediction
	err         error
	calls       int
	asked       []string
}

func (f *fakePredictor) Predict(ctx context.Context, descriptions []string, categories []models.Category) ([]models.Prediction, error) {
	f.calls++
	f.asked = descriptions
	return f.predictions, f.err
}

type fakeSink struct {
	err     error
	calls   int
	batches [][]models.PersistableTransaction
}

func (f *fakeSink) CreateBatch(ctx context.Context, txs []models.PersistableTransaction) error {
	f.calls++
	f.batches = append(f.batches, txs)
	return f.err
}

type statusCall struct {
	jobID  string
	update models.JobStatusUpdate
}

type fakeStatus struct {
	mu    sync.Mutex
	err   error
	calls []statusCall
}

func (f *fakeStatus) UpdateStatus(ctx context.Context, jobID string, update models.JobStatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, statusCall{jobID: jobID, update: update})
	return f.err
}

func (f *fakeStatus) last() statusCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fakeNotifier struct {
	err    error
	events []models.NotificationEvent
}

func (f *fakeNotifier) Publish(ctx context.Context, event models.NotificationEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func strPtr(s string) *string { return &s }
