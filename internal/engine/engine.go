// Package engine orchestrates one catalog search invocation: retrieval via
// ordered fetch strategies, boolean query evaluation, structured filtering,
// similarity scoring, ranking, and pagination.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/access-ci/catsearch/internal/filter"
	"github.com/access-ci/catsearch/internal/metrics"
	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/internal/query"
	"github.com/access-ci/catsearch/internal/ranking"
	"github.com/access-ci/catsearch/internal/retrieval"
	"github.com/access-ci/catsearch/internal/similarity"
	"github.com/access-ci/catsearch/pkg/utils"
)

// Source is the upstream collaborator for one catalog domain. It plans the
// ordered strategy list for a request and fetches one strategy's worth of
// already-normalized records. The engine never learns how a source talks to
// a network.
type Source interface {
	// Name identifies the domain (e.g. "allocations", "nsf", "software").
	Name() string
	// Plan returns the ordered fetch strategies for a request.
	Plan(req *models.SearchRequest) []retrieval.Strategy
	// Fetch executes one strategy. A valid-but-empty response is (nil, nil);
	// transport failures are errors.
	Fetch(ctx context.Context, s retrieval.Strategy) ([]models.CatalogItem, error)
	// DateField and AmountField name the item fields the date_* and
	// amount_* sort keys operate on.
	DateField() string
	AmountField() string
}

const (
	defaultMaxLimit       = 100
	defaultAttemptTimeout = 30 * time.Second
	sampleIdentifiers     = 5
)

// Engine runs searches against catalog sources. It holds no per-search
// state: every invocation builds its own parsed query and result set, so
// concurrent searches never share data.
type Engine struct {
	maxLimit       int
	attemptTimeout time.Duration
	logger         *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMaxLimit caps the page size a caller may request.
func WithMaxLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxLimit = n
		}
	}
}

// WithAttemptTimeout bounds each individual fetch attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.attemptTimeout = d
		}
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxLimit:       defaultMaxLimit,
		attemptTimeout: defaultAttemptTimeout,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs one search invocation against a source and returns the result
// envelope. Domain-level failures are returned in the envelope, never as
// panics; the request never reaches the source when parameters are unusable.
func (e *Engine) Search(ctx context.Context, src Source, req *models.SearchRequest) *models.SearchResponse {
	start := time.Now()
	resp := e.search(ctx, src, req)
	resp.QueryTime = time.Since(start).Milliseconds()

	metrics.ObserveSearch(src.Name(), statusOf(resp), time.Since(start))
	return resp
}

// statusOf derives the metric status label from the envelope. Error
// envelopes are prefixed with their kind by errorEnvelope.
func statusOf(resp *models.SearchResponse) string {
	if !resp.Failed() {
		return StatusOK
	}
	if i := strings.Index(resp.Error, ":"); i > 0 {
		return resp.Error[:i]
	}
	return "error"
}

func (e *Engine) search(ctx context.Context, src Source, req *models.SearchRequest) *models.SearchResponse {
	if err := req.Validate(); err != nil {
		return errorEnvelope(StatusInvalidParameters, err.Error())
	}
	if req.Limit > e.maxLimit {
		req.Limit = e.maxLimit
	}
	sortKey, err := ranking.ParseSortKey(req.SortBy)
	if err != nil {
		return errorEnvelope(StatusInvalidParameters, err.Error())
	}

	e.logger.Debug("search started",
		zap.String("domain", src.Name()),
		zap.String("query", utils.Truncate(req.Query, 120)),
		zap.String("id", req.ID),
	)

	// Retrieve. Identifier lookups take the first strategy that yields
	// records; free searches merge across strategies for a fuller corpus.
	retriever := retrieval.New(
		retrieval.FetcherFunc(src.Fetch),
		retrieval.WithTimeout(e.attemptTimeout),
		retrieval.WithLogger(e.logger),
	)
	strategies := src.Plan(req)

	var (
		records  []models.CatalogItem
		attempts []models.StrategyAttempt
	)
	if req.ID != "" {
		records, attempts = retriever.FetchFirst(ctx, strategies)
	} else {
		records, attempts = retriever.FetchAll(ctx, strategies)
	}

	if len(records) == 0 {
		if req.ID != "" {
			return e.unresolvedIdentifier(req.ID, nil, attempts)
		}
		resp := errorEnvelope(StatusUpstreamExhausted,
			fmt.Sprintf("all %d fetch strategies failed or returned no records", len(strategies)))
		resp.Attempts = attempts
		return resp
	}

	// Identifier lookup narrows the corpus to the exact record; a miss is
	// distinct from a generally empty result because it carries remediation.
	if req.ID != "" {
		match := findByID(records, req.ID)
		if match == nil {
			return e.unresolvedIdentifier(req.ID, records, attempts)
		}
		records = []models.CatalogItem{*match}
	}

	// Compile the text query once; reuse the tree for every record.
	expr := query.Parse(req.Query)

	var survivors []ranking.Scored
	for i := range records {
		item := &records[i]
		if !expr.Matches(item.Text) {
			continue
		}
		if !filter.Matches(item, req.Filters) {
			continue
		}
		var score *float64
		if len(req.SimilarityTo) > 0 {
			s := similarity.Score(item, req.SimilarityTo)
			if req.Threshold > 0 && s < req.Threshold {
				continue
			}
			score = &s
		}
		survivors = append(survivors, ranking.Scored{Item: item, Score: score})
	}

	// Default sort: retrieval order, or relevance once scores exist.
	if sortKey == ranking.SortDefault && len(req.SimilarityTo) > 0 {
		sortKey = ranking.SortRelevance
	}
	ranking.Sort(survivors, sortKey, src.DateField(), src.AmountField())

	total := len(survivors)
	page := ranking.Paginate(survivors, req.Offset, req.Limit)

	items := make([]models.ResultItem, 0, len(page))
	for _, s := range page {
		items = append(items, models.ResultItem{CatalogItem: *s.Item, SimilarityScore: s.Score})
	}

	e.logger.Debug("search finished",
		zap.String("domain", src.Name()),
		zap.Int("retrieved", len(records)),
		zap.Int("matched", total),
		zap.Int("returned", len(items)),
	)

	return &models.SearchResponse{Total: total, Items: items, Attempts: attempts}
}

// unresolvedIdentifier builds the remediation envelope for an identifier
// that resolved to nothing: it names a few identifiers that actually exist
// in the retrieved corpus so a chained caller can correct itself.
func (e *Engine) unresolvedIdentifier(id string, corpus []models.CatalogItem, attempts []models.StrategyAttempt) *models.SearchResponse {
	resp := errorEnvelope(StatusUnresolvedIdentifier,
		fmt.Sprintf("identifier %q not found among retrieved records", id))
	resp.Attempts = attempts
	resp.Solution = "verify the identifier, or run a text query first to discover valid identifiers"
	if samples := sampleIDs(corpus, sampleIdentifiers); len(samples) > 0 {
		resp.Solution = fmt.Sprintf("%s; retrieved identifiers include: %s",
			resp.Solution, strings.Join(samples, ", "))
		resp.Example = fmt.Sprintf(`{"id": %q, "limit": 10}`, samples[0])
	} else {
		resp.Example = `{"query": "your topic here", "limit": 10}`
	}
	return resp
}

func findByID(records []models.CatalogItem, id string) *models.CatalogItem {
	for i := range records {
		if strings.EqualFold(records[i].ID, id) {
			return &records[i]
		}
	}
	return nil
}

func sampleIDs(records []models.CatalogItem, n int) []string {
	if len(records) == 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]string, 0, n)
	for _, r := range records[:n] {
		out = append(out, r.ID)
	}
	return out
}

func errorEnvelope(kind, msg string) *models.SearchResponse {
	return &models.SearchResponse{Error: kind + ": " + msg}
}
