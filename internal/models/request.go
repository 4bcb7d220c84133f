package models

import "fmt"

// SearchRequest is one search invocation against a catalog domain.
type SearchRequest struct {
	// Query is the boolean text query. Optional.
	Query string `json:"query,omitempty"`
	// ID requests a specific-identifier lookup. Optional.
	ID string `json:"id,omitempty"`
	// Filters holds structured, non-text filters. Optional.
	Filters FilterSpec `json:"filters,omitempty"`
	// SimilarityTo is the caller's interest profile: when non-empty, every
	// surviving record receives a keyword-overlap score against it.
	SimilarityTo []string `json:"similarity_to,omitempty"`
	// Threshold drops records scoring strictly below it. Only meaningful
	// when SimilarityTo is supplied.
	Threshold float64 `json:"threshold,omitempty"`
	// SortBy selects the sort key: relevance, date_desc, date_asc,
	// amount_desc, amount_asc, name_asc. Empty means retrieval order, or
	// relevance when a similarity score was computed.
	SortBy string `json:"sort_by,omitempty"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset,omitempty"`
}

// Validate checks caller-supplied parameters. A zero or negative limit is a
// caller error, never silently clamped; a negative offset likewise. A request
// with no usable criterion (no query, no filters, no identifier) is rejected
// before any upstream fetch happens.
func (r *SearchRequest) Validate() error {
	if r.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", r.Limit)
	}
	if r.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", r.Offset)
	}
	if r.Query == "" && r.ID == "" && r.Filters.Empty() {
		return fmt.Errorf("no search criterion supplied: provide a query, filters, or an id")
	}
	if r.Threshold < 0 || r.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %v", r.Threshold)
	}
	return nil
}

// HasCriterion reports whether the request carries at least one usable
// search criterion.
func (r *SearchRequest) HasCriterion() bool {
	return r.Query != "" || r.ID != "" || !r.Filters.Empty()
}
