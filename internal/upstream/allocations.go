package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/access-ci/catsearch/internal/config"
	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/internal/retrieval"
)

// Allocations fetch strategies, in fallback order.
const (
	StrategyByProjectID      = "by_project_id"
	StrategyByQuery          = "by_query"
	StrategyByFieldOfScience = "by_field_of_science"
)

// AllocationsSource serves ACCESS-CI research project allocations.
type AllocationsSource struct {
	client *Client
}

// NewAllocationsSource creates the allocations source over an API client.
func NewAllocationsSource(client *Client) *AllocationsSource {
	return &AllocationsSource{client: client}
}

func (s *AllocationsSource) Name() string        { return config.DomainAllocations }
func (s *AllocationsSource) DateField() string   { return "start_date" }
func (s *AllocationsSource) AmountField() string { return "allocated_amount" }

// Plan orders strategies from most to least specific: an exact project id
// first, then the free-text query, then the field-of-science listing when
// the request filters on one.
func (s *AllocationsSource) Plan(req *models.SearchRequest) []retrieval.Strategy {
	var plan []retrieval.Strategy
	if req.ID != "" {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByProjectID,
			Params: map[string]string{"project_id": req.ID},
		})
	}
	if req.Query != "" {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByQuery,
			Params: map[string]string{"search": req.Query},
		})
	}
	for _, fos := range req.Filters.Categorical["field_of_science"] {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByFieldOfScience,
			Params: map[string]string{"field_of_science": fos},
		})
	}
	return plan
}

// allocationRecord is the upstream's wire shape for one project.
type allocationRecord struct {
	ProjectID       string   `json:"project_id"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	FieldOfScience  string   `json:"field_of_science"`
	AllocationType  string   `json:"allocation_type"`
	Resources       []string `json:"resources"`
	AllocatedAmount float64  `json:"allocated_amount"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
}

type allocationsResponse struct {
	Projects []allocationRecord `json:"projects"`
}

// Fetch executes one planned strategy against the allocations API.
func (s *AllocationsSource) Fetch(ctx context.Context, strat retrieval.Strategy) ([]models.CatalogItem, error) {
	params := url.Values{}
	switch strat.Name {
	case StrategyByProjectID:
		params.Set("project_id", strat.Params["project_id"])
	case StrategyByQuery:
		params.Set("search", strat.Params["search"])
	case StrategyByFieldOfScience:
		params.Set("field_of_science", strat.Params["field_of_science"])
	default:
		return nil, fmt.Errorf("unknown allocations strategy %q", strat.Name)
	}

	var resp allocationsResponse
	if err := s.client.GetJSON(ctx, "/current-projects.json", params, &resp); err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(resp.Projects))
	for _, rec := range resp.Projects {
		items = append(items, adaptAllocation(rec))
	}
	return items, nil
}

func adaptAllocation(rec allocationRecord) models.CatalogItem {
	item := models.CatalogItem{
		ID:    rec.ProjectID,
		Title: rec.Title,
		Text:  searchText(rec.Title, rec.Abstract, rec.FieldOfScience),
		Tags:  normTags(rec.Resources),
		Numeric: map[string]float64{
			"allocated_amount": rec.AllocatedAmount,
		},
	}
	cat := make(map[string][]string, 2)
	if rec.FieldOfScience != "" {
		cat["field_of_science"] = []string{rec.FieldOfScience}
	}
	if rec.AllocationType != "" {
		cat["allocation_type"] = []string{rec.AllocationType}
	}
	if len(cat) > 0 {
		item.Categorical = cat
	}
	dates := make(map[string]time.Time, 2)
	if t, ok := parseDate(rec.StartDate); ok {
		dates["start_date"] = t
	}
	if t, ok := parseDate(rec.EndDate); ok {
		dates["end_date"] = t
	}
	if len(dates) > 0 {
		item.Dates = dates
	}
	return item
}
