// Package cli renders search results for the catsearch command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/pkg/utils"
)

// OutputFormat is the format for search result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes a search envelope to w in the given format.
func WriteSearchResults(w io.Writer, resp *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	writeText(w, resp)
	return nil
}

func writeText(w io.Writer, resp *models.SearchResponse) {
	if resp.Failed() {
		fmt.Fprintf(w, "Search failed: %s\n", resp.Error)
		if resp.Solution != "" {
			fmt.Fprintf(w, "Hint: %s\n", resp.Solution)
		}
		if resp.Example != "" {
			fmt.Fprintf(w, "Example request: %s\n", resp.Example)
		}
		writeAttempts(w, resp.Attempts)
		return
	}

	fmt.Fprintf(w, "\nFound %d results in %dms (showing %d)\n\n", resp.Total, resp.QueryTime, len(resp.Items))
	for i, item := range resp.Items {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | ID: %s", i+1, item.ID)
		if item.SimilarityScore != nil {
			fmt.Fprintf(w, " | Score: %.4f", *item.SimilarityScore)
		}
		if item.Provenance != "" {
			fmt.Fprintf(w, " | Via: %s", item.Provenance)
		}
		fmt.Fprintln(w)
		if item.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", item.Title)
		}
		if item.Text != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(item.Text, 200))
		}
		fmt.Fprintln(w)
	}
	writeAttempts(w, resp.Attempts)
}

func writeAttempts(w io.Writer, attempts []models.StrategyAttempt) {
	if len(attempts) == 0 {
		return
	}
	fmt.Fprintln(w, "Strategies that yielded nothing:")
	for _, a := range attempts {
		fmt.Fprintf(w, "  %s: %s\n", a.Strategy, a.Reason)
	}
}
