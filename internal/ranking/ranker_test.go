package ranking

import (
	"testing"
	"time"

	"github.com/access-ci/catsearch/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fptr(f float64) *float64 { return &f }

func scored(id string, score *float64, date string, amount float64) Scored {
	item := &models.CatalogItem{ID: id, Title: id}
	if date != "" {
		item.Dates = map[string]time.Time{"start_date": day(date)}
	}
	if amount != 0 {
		item.Numeric = map[string]float64{"amount": amount}
	}
	return Scored{Item: item, Score: score}
}

func ids(results []Scored) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item.ID
	}
	return out
}

func assertOrder(t *testing.T, got []Scored, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].Item.ID != want[i] {
			t.Fatalf("got order %v, want %v", ids(got), want)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"", "relevance", "date_desc", "date_asc", "amount_desc", "amount_asc", "name_asc", " Relevance "} {
		if _, err := ParseSortKey(valid); err != nil {
			t.Errorf("ParseSortKey(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseSortKey("alphabetical"); err == nil {
		t.Error("expected error for unknown sort key")
	}
}

func TestSort_Relevance(t *testing.T) {
	results := []Scored{
		scored("b", fptr(0.5), "", 0),
		scored("a", fptr(0.5), "", 0),
		scored("c", fptr(0.9), "", 0),
		scored("d", nil, "", 0), // unscored sorts last
	}
	Sort(results, SortRelevance, "start_date", "amount")
	// Ties broken by id ascending for determinism.
	assertOrder(t, results, "c", "a", "b", "d")
}

func TestSort_DateDesc(t *testing.T) {
	results := []Scored{
		scored("old", nil, "2022-01-15", 0),
		scored("missing", nil, "", 0),
		scored("new", nil, "2025-06-01", 0),
		scored("mid", nil, "2023-09-30", 0),
	}
	Sort(results, SortDateDesc, "start_date", "amount")
	assertOrder(t, results, "new", "mid", "old", "missing")

	// Non-increasing sequence of dates among the valued records.
	var prev time.Time
	for i, r := range results {
		d, ok := r.Item.Dates["start_date"]
		if !ok {
			break
		}
		if i > 0 && d.After(prev) {
			t.Errorf("date sequence increased at %s", r.Item.ID)
		}
		prev = d
	}
}

func TestSort_DateDesc_TiesPreserveOrder(t *testing.T) {
	results := []Scored{
		scored("first", nil, "2024-01-01", 0),
		scored("second", nil, "2024-01-01", 0),
		scored("third", nil, "2024-01-01", 0),
	}
	Sort(results, SortDateDesc, "start_date", "amount")
	assertOrder(t, results, "first", "second", "third")
}

func TestSort_DateAsc_MissingStillLast(t *testing.T) {
	results := []Scored{
		scored("missing", nil, "", 0),
		scored("b", nil, "2024-05-01", 0),
		scored("a", nil, "2023-05-01", 0),
	}
	Sort(results, SortDateAsc, "start_date", "amount")
	assertOrder(t, results, "a", "b", "missing")
}

func TestSort_Amount(t *testing.T) {
	results := []Scored{
		scored("small", nil, "", 1000),
		scored("none", nil, "", 0), // no amount field at all
		scored("big", nil, "", 900000),
		scored("mid", nil, "", 50000),
	}
	Sort(results, SortAmountDesc, "start_date", "amount")
	assertOrder(t, results, "big", "mid", "small", "none")

	Sort(results, SortAmountAsc, "start_date", "amount")
	assertOrder(t, results, "small", "mid", "big", "none")
}

func TestSort_NameAsc(t *testing.T) {
	results := []Scored{
		{Item: &models.CatalogItem{ID: "2", Title: "ParaView"}},
		{Item: &models.CatalogItem{ID: "1", Title: "gromacs"}},
		{Item: &models.CatalogItem{ID: "3", Title: "TensorFlow"}},
	}
	Sort(results, SortNameAsc, "start_date", "amount")
	// Case-insensitive.
	assertOrder(t, results, "1", "2", "3")
}

func TestSort_DefaultKeepsRetrievalOrder(t *testing.T) {
	results := []Scored{
		scored("z", nil, "2024-01-01", 5),
		scored("a", nil, "2020-01-01", 1),
	}
	Sort(results, SortDefault, "start_date", "amount")
	assertOrder(t, results, "z", "a")
}

func TestPaginate(t *testing.T) {
	results := []Scored{
		scored("a", nil, "", 0),
		scored("b", nil, "", 0),
		scored("c", nil, "", 0),
		scored("d", nil, "", 0),
		scored("e", nil, "", 0),
	}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"first page", 0, 2, []string{"a", "b"}},
		{"second page", 2, 2, []string{"c", "d"}},
		{"offset skips exactly", 1, 3, []string{"b", "c", "d"}},
		{"limit past end", 3, 10, []string{"d", "e"}},
		{"offset past end", 10, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(results, tt.offset, tt.limit)
			if len(page) != len(tt.want) {
				t.Fatalf("page = %v, want %v", ids(page), tt.want)
			}
			if len(page) > tt.limit {
				t.Errorf("page length %d exceeds limit %d", len(page), tt.limit)
			}
			for i := range tt.want {
				if page[i].Item.ID != tt.want[i] {
					t.Errorf("page = %v, want %v", ids(page), tt.want)
				}
			}
		})
	}
}
