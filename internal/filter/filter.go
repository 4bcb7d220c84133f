// Package filter evaluates structured, non-text filters against catalog items.
//
// Semantics: across distinct dimensions all must hold; within a multi-value
// dimension any overlap suffices. A record missing a value for a requested
// dimension fails that dimension.
package filter

import (
	"strings"

	"github.com/access-ci/catsearch/internal/models"
)

// Matches reports whether the item satisfies every dimension of the spec.
// An empty spec passes everything. The item is never mutated.
func Matches(item *models.CatalogItem, spec models.FilterSpec) bool {
	if len(spec.Tags) > 0 && !matchTags(item, spec.Tags) {
		return false
	}
	for dim, wanted := range spec.Categorical {
		if !matchCategorical(item.CategoricalValues(dim), wanted) {
			return false
		}
	}
	for field, rng := range spec.Numeric {
		if !matchNumeric(item, field, rng) {
			return false
		}
	}
	for field, rng := range spec.Dates {
		if !matchDate(item, field, rng) {
			return false
		}
	}
	return true
}

// matchTags passes when the item's tag set intersects the wanted set:
// "filter by these tags" means "has at least one of these tags".
func matchTags(item *models.CatalogItem, wanted []string) bool {
	for _, w := range wanted {
		if item.HasTag(w) {
			return true
		}
	}
	return false
}

// matchCategorical uses case-insensitive substring containment in either
// direction, so "Chemistry" matches a record filed under
// "Biophysics/Chemistry" and vice versa.
func matchCategorical(have, wanted []string) bool {
	if len(have) == 0 {
		return false
	}
	for _, w := range wanted {
		wl := strings.ToLower(w)
		if wl == "" {
			continue
		}
		for _, h := range have {
			hl := strings.ToLower(h)
			if hl == "" {
				continue
			}
			if strings.Contains(hl, wl) || strings.Contains(wl, hl) {
				return true
			}
		}
	}
	return false
}

func matchNumeric(item *models.CatalogItem, field string, rng models.NumericRange) bool {
	v, ok := item.Numeric[field]
	if !ok {
		return false
	}
	if rng.Min != nil && v < *rng.Min {
		return false
	}
	if rng.Max != nil && v > *rng.Max {
		return false
	}
	return true
}

func matchDate(item *models.CatalogItem, field string, rng models.DateRange) bool {
	v, ok := item.Dates[field]
	if !ok || v.IsZero() {
		return false
	}
	if rng.From != nil && v.Before(rng.From.Time) {
		return false
	}
	if rng.To != nil && v.After(rng.To.Time) {
		return false
	}
	return true
}
