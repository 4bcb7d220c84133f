package models

// ResultItem is one catalog item in a search response, with its optional
// similarity score. The score is absent (null) when the caller supplied no
// similarity target.
type ResultItem struct {
	CatalogItem
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

// StrategyAttempt records the outcome of one failed or empty fetch attempt,
// kept for diagnostics when the retriever falls through its strategy list.
type StrategyAttempt struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// SearchResponse is the stable result envelope. Success and failure share
// the shape so a calling layer can render them uniformly: a failure carries
// Error (and, for unresolved identifiers, Solution and Example), a success
// carries Total and Items. Total counts records that matched query+filters
// before pagination; Items is the page actually returned.
type SearchResponse struct {
	Total int          `json:"total"`
	Items []ResultItem `json:"items"`

	Error    string `json:"error,omitempty"`
	Solution string `json:"solution,omitempty"`
	Example  string `json:"example,omitempty"`

	// Attempts lists per-strategy failure reasons when retrieval fell
	// through some or all of its strategies.
	Attempts []StrategyAttempt `json:"attempts,omitempty"`

	QueryTime int64 `json:"query_time_ms"`
}

// Failed reports whether the response is an error envelope.
func (r *SearchResponse) Failed() bool {
	return r.Error != ""
}
