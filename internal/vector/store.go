package vector

import (
	"fmt"
	"sync"
)

// Store holds the per-document embeddings of one snapshot. It is filled
// during a snapshot build (concurrently, by the build workers) and read-only
// afterward; a rebuild produces a fresh Store rather than mutating this one.
type Store struct {
	dims    int
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewStore creates an empty embedding store for vectors of the given width.
func NewStore(dims int) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dims)
	}
	return &Store{
		dims:    dims,
		vectors: make(map[string][]float32),
	}, nil
}

// Add stores the vector for id, replacing any previous one. The vector is
// copied, so callers may reuse their slice.
func (s *Store) Add(id string, vec []float32) error {
	if len(vec) != s.dims {
		return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vec), s.dims)
	}
	cp := make([]float32, s.dims)
	copy(cp, vec)
	s.mu.Lock()
	s.vectors[id] = cp
	s.mu.Unlock()
	return nil
}

// Get returns the stored vector for id. The returned slice is shared;
// callers must not mutate it.
func (s *Store) Get(id string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vec, ok := s.vectors[id]
	return vec, ok
}

// Len returns the number of stored vectors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Dimensions returns the vector width the store accepts.
func (s *Store) Dimensions() int {
	return s.dims
}
