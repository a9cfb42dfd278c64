// Package ranking implements the multi-signal lexical scorer over the
// document catalog: per-field exact/prefix/fuzzy/substring matching with
// coverage, phrase-adjacency, acronym, and exact-id bonuses.
package ranking

// MatchType identifies how a query token matched a field, strongest first.
type MatchType int

const (
	// MatchNone indicates the token did not match the field at all.
	MatchNone MatchType = iota
	// MatchSubstring indicates the token appears inside the raw field text.
	MatchSubstring
	// MatchFuzzy indicates a field token within the edit-distance budget.
	MatchFuzzy
	// MatchPrefix indicates a field token starting with the query token.
	MatchPrefix
	// MatchExact indicates the token is present in the field's token set.
	MatchExact
)

// String returns a string representation of the match type.
func (m MatchType) String() string {
	switch m {
	case MatchNone:
		return "none"
	case MatchSubstring:
		return "substring"
	case MatchFuzzy:
		return "fuzzy"
	case MatchPrefix:
		return "prefix"
	case MatchExact:
		return "exact"
	default:
		return "unknown"
	}
}

// Canonical field names, in the order fields appear inside a DocumentEntry.
// MatchedFields lists come out in this order.
const (
	FieldTitle       = "title"
	FieldID          = "id"
	FieldTags        = "tags"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldContent     = "content"
)

// Field is one scorable text attribute of an indexed document.
type Field struct {
	Name   string
	Weight float64
	// Tokens is the field's token sequence in source order, used for prefix
	// and fuzzy scans and for phrase adjacency.
	Tokens []string
	// Pos maps each distinct token to its first position in Tokens. The key
	// set doubles as the O(1) membership set for exact matches.
	Pos map[string]int
	// Raw is the lowercased source text, used for substring containment.
	Raw string
}

// DocumentEntry is the per-document view the scorer walks. Everything here
// is precomputed at build time; queries never re-tokenize documents.
type DocumentEntry struct {
	ID string
	// NormalizedID is the id with all non-alphanumeric runes stripped,
	// compared against the normalized query for the exact-id bonus.
	NormalizedID string
	// Acronym is the first letters of the title's non-stopword words.
	Acronym string
	Fields  []Field
}

// Index is an immutable scoring snapshot over a document corpus. Entries
// keep corpus order, which breaks score ties deterministically. An Index is
// safe for concurrent readers; rebuilds replace the whole value.
type Index struct {
	Entries []DocumentEntry
	// DocFrequencies maps each distinct token in the corpus to the number
	// of documents containing it. Feeds typo suggestions; treat as
	// read-only.
	DocFrequencies map[string]int
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.Entries)
}

// TermCount returns the size of the corpus vocabulary.
func (ix *Index) TermCount() int {
	if ix == nil {
		return 0
	}
	return len(ix.DocFrequencies)
}

// ScoredResult is one scored document with the fields that matched, in
// canonical field order.
type ScoredResult struct {
	ID            string   `json:"id"`
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matched_fields,omitempty"`
}
