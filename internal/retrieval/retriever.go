// Package retrieval implements the multi-strategy fallback retriever: an
// ordered list of fetch strategies is tried strictly sequentially until one
// yields usable data, or merged across strategies to build a fuller corpus.
package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/access-ci/catsearch/internal/metrics"
	"github.com/access-ci/catsearch/internal/models"
)

// Strategy is a pure description of one named request shape (e.g. "by exact
// id", "by free-text query"), not a live connection. Params carry the
// request parameters the fetcher needs to execute it.
type Strategy struct {
	Name   string
	Params map[string]string
}

// Fetcher executes one strategy against an upstream collaborator and returns
// already-adapted catalog items. A transport failure (non-2xx status,
// timeout, malformed payload) is an error; a valid response with zero
// records is ([], nil).
type Fetcher interface {
	Fetch(ctx context.Context, s Strategy) ([]models.CatalogItem, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, s Strategy) ([]models.CatalogItem, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, s Strategy) ([]models.CatalogItem, error) {
	return f(ctx, s)
}

const defaultAttemptTimeout = 30 * time.Second

// Retriever tries strategies one at a time, in declared order, with a
// bounded wait per attempt. Strategies are never tried concurrently: this
// bounds load against upstreams and keeps "first strategy that produced
// results wins" deterministic.
type Retriever struct {
	fetcher Fetcher
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithTimeout bounds the wait for each individual fetch attempt. On timeout
// the attempt is treated like any other transport error and the loop
// proceeds to the next strategy.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets a logger for per-attempt debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Retriever) { r.logger = l }
}

// New creates a retriever over the given fetcher.
func New(fetcher Fetcher, opts ...Option) *Retriever {
	r := &Retriever{
		fetcher: fetcher,
		timeout: defaultAttemptTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchFirst returns the result of the first strategy that yields a
// non-empty record list. Empty responses and transport errors both advance
// to the next strategy and are recorded as attempts for diagnostics. When
// every strategy is exhausted it returns an empty list plus the attempt
// log, never an error.
func (r *Retriever) FetchFirst(ctx context.Context, strategies []Strategy) ([]models.CatalogItem, []models.StrategyAttempt) {
	var attempts []models.StrategyAttempt
	for _, s := range strategies {
		items, err := r.attempt(ctx, s)
		if err != nil {
			attempts = append(attempts, models.StrategyAttempt{Strategy: s.Name, Reason: err.Error()})
			continue
		}
		if len(items) == 0 {
			attempts = append(attempts, models.StrategyAttempt{Strategy: s.Name, Reason: "empty result"})
			continue
		}
		return dedupe(items, s.Name, nil), attempts
	}
	return nil, attempts
}

// FetchAll runs every strategy in order and merges the results, deduplicating
// by id and keeping the first-seen record's provenance. Failed or empty
// attempts are recorded and do not abort the merge.
func (r *Retriever) FetchAll(ctx context.Context, strategies []Strategy) ([]models.CatalogItem, []models.StrategyAttempt) {
	var (
		attempts []models.StrategyAttempt
		merged   []models.CatalogItem
		seen     = make(map[string]bool)
	)
	for _, s := range strategies {
		items, err := r.attempt(ctx, s)
		if err != nil {
			attempts = append(attempts, models.StrategyAttempt{Strategy: s.Name, Reason: err.Error()})
			continue
		}
		if len(items) == 0 {
			attempts = append(attempts, models.StrategyAttempt{Strategy: s.Name, Reason: "empty result"})
			continue
		}
		merged = append(merged, dedupe(items, s.Name, seen)...)
	}
	return merged, attempts
}

// attempt executes one strategy with a bounded wait and records its outcome.
func (r *Retriever) attempt(ctx context.Context, s Strategy) ([]models.CatalogItem, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items, err := r.fetcher.Fetch(attemptCtx, s)
	switch {
	case err != nil:
		metrics.RecordFetchAttempt(s.Name, metrics.OutcomeError)
		r.logger.Debug("fetch strategy failed",
			zap.String("strategy", s.Name), zap.Error(err))
		return nil, err
	case len(items) == 0:
		metrics.RecordFetchAttempt(s.Name, metrics.OutcomeEmpty)
		r.logger.Debug("fetch strategy returned no records", zap.String("strategy", s.Name))
		return nil, nil
	default:
		metrics.RecordFetchAttempt(s.Name, metrics.OutcomeSuccess)
		r.logger.Debug("fetch strategy succeeded",
			zap.String("strategy", s.Name), zap.Int("records", len(items)))
		return items, nil
	}
}

// dedupe drops records whose id was already seen and stamps provenance on
// records the adapter left unstamped. seen may be nil for a single-strategy
// result; ids must still be unique within it.
func dedupe(items []models.CatalogItem, strategyName string, seen map[string]bool) []models.CatalogItem {
	if seen == nil {
		seen = make(map[string]bool, len(items))
	}
	out := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		if item.Provenance == "" {
			item.Provenance = strategyName
		}
		out = append(out, item)
	}
	return out
}
