package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid file path")
)

// FileStorage stores opaque blobs under slash-separated keys.
type FileStorage interface {
	// Upload stores file and returns the key to keep.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download fails with ErrNotFound for a missing key.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is idempotent.
	Delete(ctx context.Context, path string) error

	// GetURL returns a URL the client can fetch; expiry applies to presigned URLs.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// cleanKey normalizes p and rejects keys that climb out of the store root.
func cleanKey(p string) (string, error) {
	key := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if key == "" || key == "." || strings.Contains(p, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return key, nil
}
