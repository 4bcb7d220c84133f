package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/access-ci/catsearch/internal/models"
)

// searchRequest is the wire form of a search. Limit is a pointer so an
// omitted limit can take the configured default while an explicit zero still
// reaches the engine and is rejected there.
type searchRequest struct {
	models.SearchRequest
	Limit *int `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	src, ok := s.sources[domain]
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown domain: "+domain)
		return
	}

	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := body.SearchRequest
	if body.Limit != nil {
		req.Limit = *body.Limit
	} else {
		req.Limit = s.currentConfig().Search.DefaultLimit
	}

	s.logger.Debug("search request",
		zap.String("domain", domain),
		zap.String("query", req.Query),
		zap.Int("limit", req.Limit),
	)

	// Domain-level failures travel in the envelope with HTTP 200; only
	// transport-level problems get HTTP error codes.
	response := s.engine.Search(r.Context(), src, &req)
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]string{"domains": s.domainNames()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
