package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/tansaku/internal/models"
)

// metaVersion marks the JSONL layout in the `_meta` header line.
const metaVersion = "1"

// jsonlMeta is the optional first line of a catalog file.
type jsonlMeta struct {
	Meta metaInfo `json:"_meta"`
}

type metaInfo struct {
	Version    string `json:"version"`
	Count      int    `json:"count"`
	ExportedAt string `json:"exported_at"`
}

// JSONLStore keeps the catalog as one JSON document per line. Every read
// goes back to the file, so edits made by other processes (or an editor)
// are picked up without invalidation logic; the watcher turns those edits
// into snapshot rebuilds.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore opens a JSONL catalog at path, creating parent directories.
// The file itself may not exist yet; that is an empty catalog.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	return &JSONLStore{path: path}, nil
}

// Put inserts or replaces the document with the same ID.
func (s *JSONLStore) Put(ctx context.Context, doc *models.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := ReadJSONL(s.path)
	if err != nil {
		return err
	}
	replaced := false
	for i, d := range docs {
		if d.ID == doc.ID {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}
	return WriteJSONL(s.path, docs)
}

// Get returns the document by ID or ErrNotFound.
func (s *JSONLStore) Get(ctx context.Context, id string) (*models.Document, error) {
	docs, err := ReadJSONL(s.path)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes the document by ID or returns ErrNotFound.
func (s *JSONLStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := ReadJSONL(s.path)
	if err != nil {
		return err
	}
	kept := docs[:0]
	found := false
	for _, d := range docs {
		if d.ID == id {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return WriteJSONL(s.path, kept)
}

// List returns all documents in file order.
func (s *JSONLStore) List(ctx context.Context) ([]*models.Document, error) {
	return ReadJSONL(s.path)
}

// Count returns the number of stored documents.
func (s *JSONLStore) Count(ctx context.Context) (int, error) {
	docs, err := ReadJSONL(s.path)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Path returns the catalog file location.
func (s *JSONLStore) Path() string {
	return s.path
}

// Size returns the catalog file size in bytes; 0 when the file does not
// exist yet.
func (s *JSONLStore) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *JSONLStore) Close() error {
	return nil
}

// ReadJSONL loads every document from a catalog file. A missing file is an
// empty catalog. The first non-empty line is consumed as metadata only when
// its sole top-level key is "_meta"; a document that merely mentions _meta
// in a value still imports.
func ReadJSONL(path string) ([]*models.Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	var docs []*models.Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	sawFirst := false
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !sawFirst {
			sawFirst = true
			if isMetaLine(line) {
				continue
			}
		}
		var doc models.Document
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse document at line %d: %w", lineNum, err)
		}
		docs = append(docs, &doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return docs, nil
}

func isMetaLine(line string) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &top); err != nil {
		return false
	}
	if len(top) != 1 {
		return false
	}
	_, ok := top["_meta"]
	return ok
}

// WriteJSONL atomically replaces path with a `_meta` header plus one
// document per line. The data lands in a temp file in the same directory,
// gets fsynced, then renames over the target so a crash never leaves a
// half-written catalog.
func WriteJSONL(path string, docs []*models.Document) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	header := jsonlMeta{Meta: metaInfo{
		Version:    metaVersion,
		Count:      len(docs),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}}
	if err := enc.Encode(header); err != nil {
		cleanup()
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			cleanup()
			return fmt.Errorf("failed to write document %q: %w", doc.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp catalog: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}
