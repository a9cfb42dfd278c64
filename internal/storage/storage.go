// Package storage persists catalog documents behind a small Store interface
// with JSONL file and SQLite backends.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/tansaku/internal/models"
)

// ErrNotFound is returned when a document ID does not exist in the store.
var ErrNotFound = errors.New("document not found")

// Backend names accepted by Open.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Store persists catalog documents. List returns documents in corpus order
// (insertion order); the scorer breaks ties by that order, so stores must
// keep it stable.
type Store interface {
	// Put inserts the document or replaces the document with the same ID.
	Put(ctx context.Context, doc *models.Document) error
	// Get returns the document by ID or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Document, error)
	// Delete removes the document by ID or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// List returns all documents in corpus order.
	List(ctx context.Context) ([]*models.Document, error)
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
	// Path returns the backing file location.
	Path() string
	// Size returns the on-disk size of the backing file in bytes.
	Size() (int64, error)
	Close() error
}

// Open creates the store named by backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendJSONL:
		return NewJSONLStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
