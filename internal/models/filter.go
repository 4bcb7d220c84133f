package models

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date that marshals as YYYY-MM-DD. RFC 3339 timestamps
// are accepted on input for tolerance of upstream formats.
type Date struct {
	time.Time
}

// UnmarshalJSON parses "YYYY-MM-DD" or an RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// NumericRange is an inclusive numeric interval. A nil bound means unbounded
// on that side.
type NumericRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DateRange is an inclusive calendar-date interval. A nil bound means
// unbounded on that side.
type DateRange struct {
	From *Date `json:"from,omitempty"`
	To   *Date `json:"to,omitempty"`
}

// FilterSpec maps filter-dimension names to required values. Across
// dimensions all must hold; within a multi-value dimension any overlap
// suffices.
type FilterSpec struct {
	// Tags passes a record when its tag set intersects this set.
	Tags []string `json:"tags,omitempty"`
	// Categorical maps a dimension name (e.g. "field_of_science") to
	// accepted values; matching is case-insensitive substring containment
	// in either direction.
	Categorical map[string][]string `json:"categorical,omitempty"`
	// Numeric maps a field name to an inclusive range.
	Numeric map[string]NumericRange `json:"numeric,omitempty"`
	// Dates maps a field name to an inclusive date range.
	Dates map[string]DateRange `json:"dates,omitempty"`
}

// Empty reports whether the spec constrains nothing.
func (s FilterSpec) Empty() bool {
	return len(s.Tags) == 0 && len(s.Categorical) == 0 && len(s.Numeric) == 0 && len(s.Dates) == 0
}
