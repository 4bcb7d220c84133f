package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/access-ci/catsearch/internal/engine"
	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/internal/query"
	"github.com/access-ci/catsearch/internal/retrieval"
	"github.com/access-ci/catsearch/internal/similarity"
)

func benchCorpus(n int) []models.CatalogItem {
	topics := []string{
		"molecular dynamics simulation",
		"machine learning framework gpu",
		"quantum computing circuits",
		"scientific visualization rendering",
		"genome sequence alignment",
	}
	items := make([]models.CatalogItem, n)
	for i := range items {
		items[i] = models.CatalogItem{
			ID:    fmt.Sprintf("pkg-%04d", i),
			Title: fmt.Sprintf("Package %d", i),
			Text:  fmt.Sprintf("package %d for %s workloads", i, topics[i%len(topics)]),
			Tags:  []string{"hpc", topics[i%len(topics)][:6]},
		}
	}
	return items
}

type staticSource struct {
	items []models.CatalogItem
}

func (s *staticSource) Name() string        { return "bench" }
func (s *staticSource) DateField() string   { return "" }
func (s *staticSource) AmountField() string { return "" }

func (s *staticSource) Plan(req *models.SearchRequest) []retrieval.Strategy {
	return []retrieval.Strategy{{Name: "by_query"}}
}

func (s *staticSource) Fetch(ctx context.Context, strat retrieval.Strategy) ([]models.CatalogItem, error) {
	return s.items, nil
}

func BenchmarkParse(b *testing.B) {
	raw := `("molecular dynamics" OR quantum) AND NOT visualization`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = query.Parse(raw)
	}
}

func BenchmarkExprMatches(b *testing.B) {
	expr := query.Parse(`(molecular OR quantum) AND NOT rendering`)
	corpus := benchCorpus(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = expr.Matches(corpus[i%len(corpus)].Text)
	}
}

func BenchmarkSimilarityScore(b *testing.B) {
	corpus := benchCorpus(1000)
	target := []string{"molecular", "dynamics", "gpu", "simulation"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = similarity.Score(&corpus[i%len(corpus)], target)
	}
}

func BenchmarkEngineSearch(b *testing.B) {
	eng := engine.New()
	src := &staticSource{items: benchCorpus(1000)}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := models.SearchRequest{Query: "molecular OR quantum", SortBy: "name_asc", Limit: 20}
		resp := eng.Search(ctx, src, &req)
		if resp.Failed() {
			b.Fatalf("search failed: %s", resp.Error)
		}
	}
}
