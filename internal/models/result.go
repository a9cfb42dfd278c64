package models

// SearchResult is a single ranked hit.
type SearchResult struct {
	ID            string   `json:"id"`
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matched_fields"`
	Title         string   `json:"title,omitempty"`
	Snippet       string   `json:"snippet,omitempty"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	Query     string          `json:"query"`
	QueryTime int64           `json:"query_time_ms"`
	// Reranked indicates the result order reflects semantic reranking,
	// not just the lexical baseline.
	Reranked bool `json:"reranked,omitempty"`
	// Suggestions contains "Did you mean?" spelling suggestions when a query
	// term matched nothing but sits close to a known index term.
	Suggestions []string `json:"suggestions,omitempty"`
}
