// Package embedding provides deterministic hash-based text embeddings, an
// optional remote embedding model, and an LRU cache in front of either.
package embedding

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Model is an embedding backend that can fail and recover at runtime.
// Callers check Available before each use and fall back to the hash
// embedder when the model is down; LastError explains the degradation and
// Reset re-probes the backend. Implementations must be safe for concurrent
// use.
type Model interface {
	Embedder
	Available() bool
	LastError() error
	Reset(ctx context.Context) error
}
