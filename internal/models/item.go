// Package models defines core data structures for catalog items, search requests, and results.
package models

import (
	"strings"
	"time"
)

// CatalogItem is one normalized record from an upstream catalog (a project,
// an award, a software package). It is built once by a per-domain adapter
// and never mutated afterwards: query evaluation, filtering, and scoring
// only read it.
type CatalogItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Text is the concatenation of the record's searchable free-text
	// fields, lowercase-normalized at adapter time.
	Text string `json:"text,omitempty"`
	// Tags is a set of normalized lowercase strings (resource names,
	// keywords, etc.).
	Tags []string `json:"tags,omitempty"`
	// Categorical maps a filter-dimension name (e.g. "field_of_science")
	// to the record's values for that dimension.
	Categorical map[string][]string `json:"categorical,omitempty"`
	// Numeric maps a field name (e.g. "amount") to a number.
	Numeric map[string]float64 `json:"numeric,omitempty"`
	// Dates maps a field name (e.g. "start_date") to a calendar date.
	Dates map[string]time.Time `json:"dates,omitempty"`
	// Provenance names the fetch strategy that produced this record.
	Provenance string `json:"provenance,omitempty"`
}

// HasTag reports whether the item carries the given tag. Comparison is
// case-insensitive; stored tags are already lowercase.
func (c *CatalogItem) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CategoricalValues returns the item's values for a filter dimension, or nil
// when the item has no value for it.
func (c *CatalogItem) CategoricalValues(dimension string) []string {
	if c.Categorical == nil {
		return nil
	}
	return c.Categorical[dimension]
}
