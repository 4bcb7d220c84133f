// Package ranking sorts filtered catalog records by a requested key and
// applies offset/limit pagination.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/access-ci/catsearch/internal/models"
)

// SortKey selects the ranking order for a result set.
type SortKey string

const (
	// SortDefault is retrieval order, or relevance when a similarity score
	// was computed.
	SortDefault    SortKey = ""
	SortRelevance  SortKey = "relevance"
	SortDateDesc   SortKey = "date_desc"
	SortDateAsc    SortKey = "date_asc"
	SortAmountDesc SortKey = "amount_desc"
	SortAmountAsc  SortKey = "amount_asc"
	SortNameAsc    SortKey = "name_asc"
)

// ParseSortKey validates a caller-supplied sort key string.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case SortDefault, SortRelevance, SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc, SortNameAsc:
		return key, nil
	default:
		return SortDefault, fmt.Errorf("unknown sort key %q", s)
	}
}

// Scored pairs a catalog item with its optional similarity score. Score is
// nil when no similarity target was supplied.
type Scored struct {
	Item  *models.CatalogItem
	Score *float64
}

// Sort orders results in place by the given key. dateField and amountField
// name the item fields the date and amount keys sort on. Records missing
// the sort-key value sort after all records that have one, regardless of
// direction; ties preserve original relative order.
func Sort(results []Scored, key SortKey, dateField, amountField string) {
	switch key {
	case SortRelevance:
		sort.SliceStable(results, func(i, j int) bool {
			si, iOK := scoreOf(results[i])
			sj, jOK := scoreOf(results[j])
			if iOK != jOK {
				return iOK
			}
			if !iOK {
				return false
			}
			if si != sj {
				return si > sj
			}
			// Deterministic tie-break by id ascending.
			return results[i].Item.ID < results[j].Item.ID
		})
	case SortDateDesc, SortDateAsc:
		asc := key == SortDateAsc
		sort.SliceStable(results, func(i, j int) bool {
			di, iOK := results[i].Item.Dates[dateField]
			dj, jOK := results[j].Item.Dates[dateField]
			iOK = iOK && !di.IsZero()
			jOK = jOK && !dj.IsZero()
			if iOK != jOK {
				return iOK
			}
			if !iOK || di.Equal(dj) {
				return false
			}
			if asc {
				return di.Before(dj)
			}
			return di.After(dj)
		})
	case SortAmountDesc, SortAmountAsc:
		asc := key == SortAmountAsc
		sort.SliceStable(results, func(i, j int) bool {
			vi, iOK := results[i].Item.Numeric[amountField]
			vj, jOK := results[j].Item.Numeric[amountField]
			if iOK != jOK {
				return iOK
			}
			if !iOK || vi == vj {
				return false
			}
			if asc {
				return vi < vj
			}
			return vi > vj
		})
	case SortNameAsc:
		sort.SliceStable(results, func(i, j int) bool {
			ni := strings.ToLower(results[i].Item.Title)
			nj := strings.ToLower(results[j].Item.Title)
			if (ni == "") != (nj == "") {
				return ni != ""
			}
			return ni < nj
		})
	case SortDefault:
		// Retrieval order: nothing to do.
	}
}

func scoreOf(s Scored) (float64, bool) {
	if s.Score == nil {
		return 0, false
	}
	return *s.Score, true
}

// Paginate applies offset then limit to an already-sorted result set. The
// caller has validated limit > 0 and offset >= 0.
func Paginate(results []Scored, offset, limit int) []Scored {
	if offset >= len(results) {
		return nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
