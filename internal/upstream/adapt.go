package upstream

import (
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", "01/02/2006", time.RFC3339}

// parseDate tries the date layouts the upstreams are known to emit. A blank
// or unparseable value yields a zero time and ok=false; adapters skip the
// field rather than fail the record.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// searchText lowercases and joins the record's free-text fields, skipping
// blanks.
func searchText(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, strings.ToLower(p))
		}
	}
	return strings.Join(kept, " ")
}

// normTags lowercases and trims tag values, dropping blanks and duplicates.
func normTags(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
