package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/access-ci/catsearch/internal/config"
	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/internal/retrieval"
)

// NSF award fetch strategies, in fallback order.
const (
	StrategyByAwardID = "by_award_id"
	StrategyByKeyword = "by_keyword"
	StrategyByProgram = "by_program"
)

// nsfFields is the projection requested from the awards API.
const nsfFields = "id,title,abstractText,agency,fundProgramName,fundsObligatedAmt,startDate,piLastName"

// NSFSource serves NSF award records.
type NSFSource struct {
	client *Client
}

// NewNSFSource creates the NSF awards source over an API client.
func NewNSFSource(client *Client) *NSFSource {
	return &NSFSource{client: client}
}

func (s *NSFSource) Name() string        { return config.DomainNSF }
func (s *NSFSource) DateField() string   { return "start_date" }
func (s *NSFSource) AmountField() string { return "amount" }

// Plan orders strategies from most to least specific: exact award id, then
// keyword search, then the funding-program listing when the request filters
// on one.
func (s *NSFSource) Plan(req *models.SearchRequest) []retrieval.Strategy {
	var plan []retrieval.Strategy
	if req.ID != "" {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByAwardID,
			Params: map[string]string{"id": req.ID},
		})
	}
	if req.Query != "" {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByKeyword,
			Params: map[string]string{"keyword": req.Query},
		})
	}
	for _, program := range req.Filters.Categorical["program"] {
		plan = append(plan, retrieval.Strategy{
			Name:   StrategyByProgram,
			Params: map[string]string{"program": program},
		})
	}
	return plan
}

// nsfAward is the awards API wire shape. Amounts arrive as strings.
type nsfAward struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	AbstractText      string `json:"abstractText"`
	Agency            string `json:"agency"`
	FundProgramName   string `json:"fundProgramName"`
	FundsObligatedAmt string `json:"fundsObligatedAmt"`
	StartDate         string `json:"startDate"`
	PILastName        string `json:"piLastName"`
}

type nsfResponse struct {
	Response struct {
		Award []nsfAward `json:"award"`
	} `json:"response"`
}

// Fetch executes one planned strategy against the awards API.
func (s *NSFSource) Fetch(ctx context.Context, strat retrieval.Strategy) ([]models.CatalogItem, error) {
	params := url.Values{}
	params.Set("printFields", nsfFields)
	switch strat.Name {
	case StrategyByAwardID:
		params.Set("id", strat.Params["id"])
	case StrategyByKeyword:
		params.Set("keyword", strat.Params["keyword"])
	case StrategyByProgram:
		params.Set("fundProgramName", strat.Params["program"])
	default:
		return nil, fmt.Errorf("unknown nsf strategy %q", strat.Name)
	}

	var resp nsfResponse
	if err := s.client.GetJSON(ctx, "/awards.json", params, &resp); err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(resp.Response.Award))
	for _, rec := range resp.Response.Award {
		items = append(items, adaptAward(rec))
	}
	return items, nil
}

func adaptAward(rec nsfAward) models.CatalogItem {
	item := models.CatalogItem{
		ID:    rec.ID,
		Title: rec.Title,
		Text:  searchText(rec.Title, rec.AbstractText, rec.FundProgramName, rec.PILastName),
	}
	cat := make(map[string][]string, 2)
	if rec.FundProgramName != "" {
		cat["program"] = []string{rec.FundProgramName}
	}
	if rec.Agency != "" {
		cat["agency"] = []string{rec.Agency}
	}
	if len(cat) > 0 {
		item.Categorical = cat
	}
	if amt, err := strconv.ParseFloat(rec.FundsObligatedAmt, 64); err == nil {
		item.Numeric = map[string]float64{"amount": amt}
	}
	if t, ok := parseDate(rec.StartDate); ok {
		item.Dates = map[string]time.Time{"start_date": t}
	}
	return item
}
