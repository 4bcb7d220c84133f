package e2e

import (
	"strings"
	"testing"
)

func TestCorpusFixtureIntegrity(t *testing.T) {
	corpus := BuildCorpus()

	seen := map[string]bool{}
	for _, item := range corpus.Items {
		if item.ID == "" {
			t.Error("corpus item with empty id")
		}
		if seen[item.ID] {
			t.Errorf("duplicate corpus id %s", item.ID)
		}
		seen[item.ID] = true
		if item.Text != strings.ToLower(item.Text) {
			t.Errorf("item %s text is not lowercase", item.ID)
		}
	}

	for _, tc := range corpus.TestCases {
		if len(tc.ExpectedIDs) == 0 {
			t.Errorf("case %q expects no ids", tc.Description)
		}
		for _, id := range tc.ExpectedIDs {
			if !seen[id] {
				t.Errorf("case %q expects unknown id %s", tc.Description, id)
			}
		}
	}
}
