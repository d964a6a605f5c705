package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetFile when nothing is stored at the path
var ErrNotFound = errors.New("file not found")

// StorageClient defines the interface for basic storage operations.
// Paths are slash separated and relative to the client's root.
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores a file at the specified path, replacing any previous content
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)

	// ListFiles lists stored paths under prefix, sorted
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}
