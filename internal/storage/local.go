package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"poupeai/statement-ingestion/internal/fileutils"
	"poupeai/statement-ingestion/internal/logging"
)

// LocalStore serves objects from a directory; keys are slash-separated paths
// relative to it.
type LocalStore struct {
	root   string
	logger logging.Logger
}

// NewLocalStore creates a store rooted at dir, which must exist.
func NewLocalStore(dir string, logger logging.Logger) (*LocalStore, error) {
	if !fileutils.DirectoryExists(dir) {
		return nil, fmt.Errorf("storage: local directory does not exist: %s", dir)
	}
	return &LocalStore{root: dir, logger: logger}, nil
}

// Download opens the file stored under key.
func (s *LocalStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := fileutils.ResolveWithin(s.root, key)
	if err != nil {
		return nil, err
	}
	f, err := fileutils.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, err
	}
	s.logger.Debug("Opened local object", logging.F(logging.FieldFileKey, key))
	return f, nil
}
