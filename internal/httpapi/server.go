// Package httpapi exposes the engine's three classification entry points
// over HTTP, routed with github.com/gorilla/mux the way
// glennmartinez-risk-analyzer-2026's internal/routes package wires its
// handlers onto a *mux.Router, with an optional content-hash result cache
// in Redis mirroring that repo's redis-backed repository pattern applied
// to classification results instead of documents.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/insightseries/pivot-insight/engine"
)

// Server wires an engine.Engine and optional Cache onto an HTTP router.
type Server struct {
	engine *engine.Engine
	cache  *Cache
	router *mux.Router
}

// NewServer constructs a Server. cache may be nil, disabling result
// caching entirely.
func NewServer(e *engine.Engine, cache *Cache) *Server {
	s := &Server{engine: e, cache: cache, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/analyze", s.handleAnalyzeDocument).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/analyze/qa", s.handleAnalyzeQA).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/analyze/texts", s.handleAnalyzeTexts).Methods(http.MethodPost)
	s.router.Use(loggingMiddleware, metricsMiddleware)
}

// Handler returns the fully-wired http.Handler, ready to pass to
// http.Server or httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts an http.Server bound to addr serving s.Handler().
func ListenAndServe(addr string, s *Server) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}
