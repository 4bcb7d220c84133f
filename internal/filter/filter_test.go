package filter

import (
	"testing"
	"time"

	"github.com/access-ci/catsearch/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fptr(f float64) *float64 { return &f }

func dptr(s string) *models.Date { return &models.Date{Time: date(s)} }

func testItem() *models.CatalogItem {
	return &models.CatalogItem{
		ID:    "proj-1",
		Title: "GROMACS",
		Tags:  []string{"chem", "mpi"},
		Categorical: map[string][]string{
			"research_area": {"Biophysics/Chemistry"},
			"resource_type": {"Compute"},
		},
		Numeric: map[string]float64{"amount": 250000},
		Dates:   map[string]time.Time{"start_date": date("2024-03-01")},
	}
}

func TestMatches_Tags(t *testing.T) {
	item := testItem()

	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{"single overlap", []string{"chem"}, true},
		{"any-of semantics", []string{"gpu", "chem"}, true},
		{"no overlap", []string{"gpu", "viz"}, false},
		{"case-insensitive", []string{"CHEM"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := models.FilterSpec{Tags: tt.tags}
			if got := Matches(item, spec); got != tt.want {
				t.Errorf("Matches(tags=%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestMatches_Categorical(t *testing.T) {
	item := testItem()

	cases := []struct {
		name string
		dim  string
		vals []string
		want bool
	}{
		{"record contains supplied", "research_area", []string{"Chemistry"}, true},
		{"supplied contains record", "research_area", []string{"Applied Biophysics/Chemistry Methods"}, true},
		{"case-insensitive", "research_area", []string{"chemistry"}, true},
		{"no variant matches", "research_area", []string{"Astronomy"}, false},
		{"any of several values", "research_area", []string{"Astronomy", "Chemistry"}, true},
		{"missing dimension fails", "software_class", []string{"Simulation"}, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			spec := models.FilterSpec{Categorical: map[string][]string{tt.dim: tt.vals}}
			if got := Matches(item, spec); got != tt.want {
				t.Errorf("Matches(%s=%v) = %v, want %v", tt.dim, tt.vals, got, tt.want)
			}
		})
	}
}

func TestMatches_NumericRange(t *testing.T) {
	item := testItem()

	tests := []struct {
		name string
		rng  models.NumericRange
		want bool
	}{
		{"inside range", models.NumericRange{Min: fptr(100000), Max: fptr(500000)}, true},
		{"inclusive lower bound", models.NumericRange{Min: fptr(250000)}, true},
		{"inclusive upper bound", models.NumericRange{Max: fptr(250000)}, true},
		{"below min", models.NumericRange{Min: fptr(300000)}, false},
		{"above max", models.NumericRange{Max: fptr(100000)}, false},
		{"unbounded both sides", models.NumericRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := models.FilterSpec{Numeric: map[string]models.NumericRange{"amount": tt.rng}}
			if got := Matches(item, spec); got != tt.want {
				t.Errorf("Matches(amount in %+v) = %v, want %v", tt.rng, got, tt.want)
			}
		})
	}

	// Missing numeric field fails the dimension, never passes by default.
	spec := models.FilterSpec{Numeric: map[string]models.NumericRange{"cpu_hours": {}}}
	if Matches(item, spec) {
		t.Error("missing numeric field should fail its dimension")
	}
}

func TestMatches_DateRange(t *testing.T) {
	item := testItem()

	tests := []struct {
		name string
		rng  models.DateRange
		want bool
	}{
		{"inside range", models.DateRange{From: dptr("2024-01-01"), To: dptr("2024-12-31")}, true},
		{"inclusive from", models.DateRange{From: dptr("2024-03-01")}, true},
		{"inclusive to", models.DateRange{To: dptr("2024-03-01")}, true},
		{"before from", models.DateRange{From: dptr("2024-06-01")}, false},
		{"after to", models.DateRange{To: dptr("2024-01-01")}, false},
		{"unbounded", models.DateRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := models.FilterSpec{Dates: map[string]models.DateRange{"start_date": tt.rng}}
			if got := Matches(item, spec); got != tt.want {
				t.Errorf("Matches(start_date in %+v) = %v, want %v", tt.rng, got, tt.want)
			}
		})
	}

	spec := models.FilterSpec{Dates: map[string]models.DateRange{"end_date": {}}}
	if Matches(item, spec) {
		t.Error("missing date field should fail its dimension")
	}
}

func TestMatches_AcrossDimensions(t *testing.T) {
	item := testItem()

	// All supplied dimensions must hold.
	spec := models.FilterSpec{
		Tags:        []string{"chem"},
		Categorical: map[string][]string{"research_area": {"Chemistry"}},
	}
	if !Matches(item, spec) {
		t.Error("both dimensions satisfied, should match")
	}

	spec.Tags = []string{"gpu"}
	if Matches(item, spec) {
		t.Error("one failing dimension should fail the record")
	}
}

func TestMatches_EmptySpec(t *testing.T) {
	if !Matches(testItem(), models.FilterSpec{}) {
		t.Error("empty spec should pass every record")
	}
}
