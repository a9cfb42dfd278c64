// Package models defines core data structures for catalog documents, queries, and search results.
package models

import (
	"fmt"
	"strings"
)

// Document is a single catalog entry. Documents are immutable once indexed;
// catalog changes surface through a snapshot rebuild, never in-place mutation.
type Document struct {
	ID          string   `json:"id" yaml:"id" db:"id"`
	Title       string   `json:"title" yaml:"title" db:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" db:"description"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty" db:"category"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty" db:"tags"`
	Content     string   `json:"content,omitempty" yaml:"content,omitempty" db:"content"`
}

// Validate checks that the document can be stored and indexed.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("document %q: title cannot be empty", d.ID)
	}
	return nil
}

// SearchText concatenates the document's text attributes into the single
// string used for embedding. Field order is fixed so the result is
// deterministic for identical documents.
func (d *Document) SearchText() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{d.Title, d.Description, d.Category, strings.Join(d.Tags, " "), d.Content} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return d.ID
	}
	return strings.Join(parts, " ")
}
