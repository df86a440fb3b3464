package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"poupeai/statement-ingestion/internal/logging"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore downloads objects from a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	logger logging.Logger
}

// NewGCSStore creates a store for bucket. A non-empty endpoint targets an
// emulator (fake-gcs-server) and disables authentication.
func NewGCSStore(ctx context.Context, bucket, endpoint string, logger logging.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, logger: logger}, nil
}

// Download opens a reader on key. Keys may also be full gs:// URIs, in which
// case their bucket overrides the configured one.
func (s *GCSStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	bucket, object, err := splitGCSURI(key)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = s.bucket
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: gs://%s/%s", ErrObjectNotFound, bucket, object)
		}
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	s.logger.Debug("Opened GCS object",
		logging.F(logging.FieldFileKey, object),
		logging.F("bucket", bucket),
		logging.F("size", r.Attrs.Size))
	return r, nil
}

// Close releases the storage client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
