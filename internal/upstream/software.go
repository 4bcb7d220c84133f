package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/access-ci/catsearch/internal/config"
	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/internal/retrieval"
)

// Software discovery fetch strategies, in fallback order.
const (
	StrategyByName         = "by_name"
	StrategyBySearch       = "by_query"
	StrategyByResearchArea = "by_research_area"
)

// SoftwareSource serves the software discovery catalog: packages installed
// across the federation's resources.
type SoftwareSource struct {
	client *Client
}

// NewSoftwareSource creates the software source over an API client.
func NewSoftwareSource(client *Client) *SoftwareSource {
	return &SoftwareSource{client: client}
}

func (s *SoftwareSource) Name() string { return config.DomainSoftware }

// The software catalog carries no date or amount fields; date_* and amount_*
// sorts leave its records in retrieval order.
func (s *SoftwareSource) DateField() string   { return "" }
func (s *SoftwareSource) AmountField() string { return "" }

// Plan orders strategies from most to least specific: exact package name,
// then free-text search, then the research-area listing when the request
// filters on one.
func (s *SoftwareSource) Plan(req *models.SearchRequest) []retrieval.Strategy {
	var plan []retrieval.Strategy
	if req.ID != "" {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByName,
			Params: map[string]string{"name": req.ID},
		})
	}
	if req.Query != "" {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyBySearch,
			Params: map[string]string{"search": req.Query},
		})
	}
	for _, area := range req.Filters.Categorical["research_area"] {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByResearchArea,
			Params: map[string]string{"research_area": area},
		})
	}
	return plan
}

// softwareRecord is the discovery API wire shape. Research areas arrive as a
// single comma-separated string.
type softwareRecord struct {
	Name         string   `json:"software_name"`
	Description  string   `json:"software_description"`
	ResearchArea string   `json:"research_area"`
	SoftwareType string   `json:"software_type"`
	Resources    []string `json:"resources"`
}

type softwareResponse struct {
	Results []softwareRecord `json:"results"`
}

// Fetch executes one planned strategy against the discovery API.
func (s *SoftwareSource) Fetch(ctx context.Context, strat retrieval.Strategy) ([]models.CatalogItem, error) {
	params := url.Values{}
	switch strat.Name {
	case StrategyByName:
		params.Set("software_name", strat.Params["name"])
	case StrategyBySearch:
		params.Set("search", strat.Params["search"])
	case StrategyByResearchArea:
		params.Set("research_area", strat.Params["research_area"])
	default:
		return nil, fmt.Errorf("unknown software strategy %q", strat.Name)
	}

	var resp softwareResponse
	if err := s.client.GetJSON(ctx, "/software", params, &resp); err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(resp.Results))
	for _, rec := range resp.Results {
		items = append(items, adaptSoftware(rec))
	}
	return items, nil
}

func adaptSoftware(rec softwareRecord) models.CatalogItem {
	item := models.CatalogItem{
		ID:    strings.ToLower(strings.TrimSpace(rec.Name)),
		Title: rec.Name,
		Text:  searchText(rec.Name, rec.Description, rec.ResearchArea),
		Tags:  normTags(rec.Resources),
	}
	cat := make(map[string][]string, 2)
	if areas := splitList(rec.ResearchArea); len(areas) > 0 {
		cat["research_area"] = areas
	}
	if rec.SoftwareType != "" {
		cat["software_type"] = []string{rec.SoftwareType}
	}
	if len(cat) > 0 {
		item.Categorical = cat
	}
	return item
}

// splitList splits a comma-separated upstream value into trimmed parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
