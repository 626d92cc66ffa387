// Package storage provides interfaces and implementations for object storage.
// Supported providers: local filesystem, Amazon S3 (and S3-compatible services).
package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the interface for object storage operations.
type Storage interface {
	// Upload writes data from reader to the given path.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a public URL for accessing the object at the given path.
	URL(ctx context.Context, path string) (string, error)

	// List returns metadata for all objects whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// BatchDeleter is optionally implemented by storage backends that can remove
// many objects in one call. Callers fall back to per-object Delete when a
// backend does not implement it.
type BatchDeleter interface {
	// DeleteBatch removes all objects at the given paths. Missing objects
	// are not an error.
	DeleteBatch(ctx context.Context, paths []string) error
}

// Prober is optionally implemented by storage backends that can verify
// access to their backing store before any objects are written.
type Prober interface {
	// Probe checks that the backing store exists and is accessible.
	Probe(ctx context.Context) error
}

// DeleteAll removes the given paths using DeleteBatch when the backend
// supports it, or per-object Delete otherwise.
func DeleteAll(ctx context.Context, s Storage, paths []string) error {
	if bd, ok := s.(BatchDeleter); ok {
		return bd.DeleteBatch(ctx, paths)
	}
	for _, p := range paths {
		if err := s.Delete(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
