// Package server provides the HTTP API for catsearch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/access-ci/catsearch/internal/config"
	"github.com/access-ci/catsearch/internal/engine"
	"github.com/access-ci/catsearch/internal/metrics"
)

// Server is the HTTP server for the catsearch API. It routes each search
// request to the registered source for the URL's domain.
type Server struct {
	engine  *engine.Engine
	sources map[string]engine.Source
	logger  *zap.Logger
	server  *http.Server

	mu  sync.RWMutex
	cfg *config.Config
}

// NewServer creates a server over the given engine and domain sources.
func NewServer(eng *engine.Engine, sources []engine.Source, cfg *config.Config, logger *zap.Logger) *Server {
	byName := make(map[string]engine.Source, len(sources))
	for _, src := range sources {
		byName[src.Name()] = src
	}
	return &Server{
		engine:  eng,
		sources: byName,
		cfg:     cfg,
		logger:  logger,
	}
}

// UpdateConfig swaps in a reloaded config. Request defaults pick it up on
// the next request; the listen address does not change at runtime.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Server) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Router builds the HTTP handler. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Post("/api/v1/{domain}/search", s.handleSearch)
	r.Get("/api/v1/domains", s.handleDomains)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	cfg := s.currentConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server",
		zap.String("addr", addr),
		zap.Strings("domains", s.domainNames()),
	)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) domainNames() []string {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
