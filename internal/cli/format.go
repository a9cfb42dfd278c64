// Package cli renders search results, documents, and index stats for the
// command line, and drives the interactive picker.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/search"
)

// OutputFormat selects how command output is rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	writeSearchResultsText(w, response)
	return nil
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "Found %d results in %dms", response.Total, response.QueryTime)
	if response.Reranked {
		fmt.Fprint(w, " (reranked)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(response.Suggestions, ", "))
	}
}

func writeOneResult(w io.Writer, rank int, result *models.SearchResult) {
	title := result.Title
	if title == "" {
		title = result.ID
	}
	fmt.Fprintf(w, "%2d. %s (%s)  score %.2f\n", rank, title, result.ID, result.Score)
	if len(result.MatchedFields) > 0 {
		fmt.Fprintf(w, "    matched: %s\n", strings.Join(result.MatchedFields, ", "))
	}
	if result.Snippet != "" {
		fmt.Fprintf(w, "    %s\n", result.Snippet)
	}
	fmt.Fprintln(w)
}

// WriteDocument writes a full document view to w in the given format.
func WriteDocument(w io.Writer, doc *models.Document, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, doc)
	}
	writeDocumentText(w, doc)
	return nil
}

func writeDocumentText(w io.Writer, doc *models.Document) {
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	description := doc.Description
	if description == "" {
		description = "No description provided."
	}
	category := doc.Category
	if category == "" {
		category = "uncategorized"
	}
	tags := "none"
	if len(doc.Tags) > 0 {
		tags = strings.Join(doc.Tags, ", ")
	}
	fmt.Fprintf(w, "\n%s (%s)\n", title, doc.ID)
	fmt.Fprintln(w, description)
	fmt.Fprintf(w, "Category: %s\n", category)
	fmt.Fprintf(w, "Tags: %s\n", tags)
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w, doc.Content)
}

// WriteDocumentList writes a one-line-per-document catalog listing.
func WriteDocumentList(w io.Writer, docs []*models.Document, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, docs)
	}
	fmt.Fprintf(w, "%d documents\n\n", len(docs))
	for _, doc := range docs {
		category := doc.Category
		if category == "" {
			category = "uncategorized"
		}
		fmt.Fprintf(w, "%-28s %s [%s]\n", doc.ID, doc.Title, category)
	}
	return nil
}

// WriteStats writes index statistics to w in the given format.
func WriteStats(w io.Writer, stats search.Stats, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, stats)
	}
	fmt.Fprintf(w, "Documents:      %d\n", stats.Documents)
	fmt.Fprintf(w, "Terms:          %d\n", stats.Terms)
	fmt.Fprintf(w, "Embedding dims: %d\n", stats.EmbeddingDims)
	if !stats.BuiltAt.IsZero() {
		fmt.Fprintf(w, "Built at:       %s\n", stats.BuiltAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Store path:     %s\n", stats.StorePath)
	fmt.Fprintf(w, "Store size:     %d bytes\n", stats.StoreBytes)
	model := "hash (local)"
	if stats.ModelAvailable {
		model = "remote"
	} else if stats.ModelError != "" {
		model = fmt.Sprintf("hash (remote unavailable: %s)", stats.ModelError)
	}
	fmt.Fprintf(w, "Embedder:       %s\n", model)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
