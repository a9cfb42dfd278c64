package models

const (
	// DefaultLimit is applied when a query does not specify a result limit.
	DefaultLimit = 10
	// MaxLimit caps the number of results a single query may request.
	MaxLimit = 100
)

// SearchQuery represents a search request against the engine. Limit and
// Offset are clamped by the engine to its configured bounds; an empty query
// is answered with an empty result set, never an error.
type SearchQuery struct {
	Query    string  `json:"query"`
	Limit    int     `json:"limit,omitempty"`
	Offset   int     `json:"offset,omitempty"`
	Synonyms bool    `json:"synonyms,omitempty"` // opt-in synonym expansion
	Rerank   bool    `json:"rerank,omitempty"`   // opt-in semantic reranking
	MinScore float64 `json:"min_score,omitempty"`
}
