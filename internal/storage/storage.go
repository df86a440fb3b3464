// Package storage provides the object stores statement files are downloaded
// from: Google Cloud Storage in production and a directory for local runs.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// splitGCSURI accepts either a plain object key or a gs://bucket/key URI and
// returns the bucket (empty for plain keys) and the object name.
func splitGCSURI(key string) (bucket, object string, err error) {
	if !strings.HasPrefix(key, "gs://") {
		return "", strings.TrimPrefix(key, "/"), nil
	}
	parts := strings.SplitN(strings.TrimPrefix(key, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", key)
	}
	return parts[0], parts[1], nil
}
