package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/access-ci/catsearch/internal/config"
	"github.com/access-ci/catsearch/internal/engine"
	"github.com/access-ci/catsearch/internal/models"
	"github.com/access-ci/catsearch/internal/retrieval"
)

type stubSource struct {
	name   string
	corpus []models.CatalogItem
}

func (s *stubSource) Name() string        { return s.name }
func (s *stubSource) DateField() string   { return "start_date" }
func (s *stubSource) AmountField() string { return "amount" }

func (s *stubSource) Plan(req *models.SearchRequest) []retrieval.Strategy {
	return []retrieval.Strategy{{Name: "by_query"}}
}

func (s *stubSource) Fetch(ctx context.Context, strat retrieval.Strategy) ([]models.CatalogItem, error) {
	return s.corpus, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	corpus := []models.CatalogItem{
		{ID: "gromacs", Title: "GROMACS", Text: "gromacs molecular dynamics"},
		{ID: "lammps", Title: "LAMMPS", Text: "lammps molecular dynamics"},
		{ID: "paraview", Title: "ParaView", Text: "paraview visualization"},
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Search.DefaultLimit = 2

	return NewServer(
		engine.New(),
		[]engine.Source{&stubSource{name: "software", corpus: corpus}},
		cfg,
		zap.NewNop(),
	)
}

func doSearch(t *testing.T, s *Server, domain, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/"+domain+"/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.SearchResponse {
	t.Helper()
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

func TestHandleSearch(t *testing.T) {
	s := newTestServer(t)

	rec := doSearch(t, s, "software", `{"query": "molecular", "limit": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Errorf("total = %d, items = %d, want 2/2", resp.Total, len(resp.Items))
	}
}

func TestHandleSearchDefaultLimit(t *testing.T) {
	s := newTestServer(t)

	// No limit in the body: the configured default (2) applies, so only two
	// of the three matching records come back.
	rec := doSearch(t, s, "software", `{"query": "dynamics OR visualization"}`)
	resp := decodeEnvelope(t, rec)
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Total != 3 || len(resp.Items) != 2 {
		t.Errorf("total = %d, items = %d, want 3 total and 2 returned", resp.Total, len(resp.Items))
	}
}

func TestHandleSearchExplicitZeroLimit(t *testing.T) {
	s := newTestServer(t)

	// An explicit zero is a caller error, not a request for the default.
	rec := doSearch(t, s, "software", `{"query": "molecular", "limit": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with error envelope", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if !strings.HasPrefix(resp.Error, "invalid_parameters") {
		t.Errorf("error = %q, want invalid_parameters prefix", resp.Error)
	}
}

func TestHandleSearchUnknownDomain(t *testing.T) {
	s := newTestServer(t)
	rec := doSearch(t, s, "hardware", `{"query": "anything"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSearchMalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := doSearch(t, s, "software", `{"query": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDomains(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/domains", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if got := body["domains"]; len(got) != 1 || got[0] != "software" {
		t.Errorf("domains = %v", got)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestUpdateConfig(t *testing.T) {
	s := newTestServer(t)

	next := &config.Config{}
	config.ApplyDefaults(next)
	next.Search.DefaultLimit = 1
	s.UpdateConfig(next)

	rec := doSearch(t, s, "software", `{"query": "dynamics"}`)
	resp := decodeEnvelope(t, rec)
	if resp.Total != 2 || len(resp.Items) != 1 {
		t.Errorf("total = %d, items = %d, want 2 total and 1 returned after reload", resp.Total, len(resp.Items))
	}
}
