// Package api serves the watch-mode status endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doctoc/internal/metrics"
	"git.home.luguber.info/inful/doctoc/internal/version"
)

// RunStatus summarises the most recent run.
type RunStatus struct {
	RunID      string    `json:"run_id"`
	Reason     string    `json:"reason"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	Documents  int       `json:"documents"`
	Updated    int       `json:"updated"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
}

// Server represents the status server.
type Server struct {
	Addr     string
	router   *chi.Mux
	server   *http.Server
	registry *prom.Registry
	trigger  func(reason string)

	mu      sync.RWMutex
	lastRun *RunStatus
}

// NewServer creates a status server. registry backs /metrics; trigger, when
// not nil, is called by POST /runs.
func NewServer(addr string, registry *prom.Registry, trigger func(reason string)) *Server {
	s := &Server{
		Addr:     addr,
		router:   chi.NewRouter(),
		registry: registry,
		trigger:  trigger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/status", s.handleStatus)
	s.router.Post("/runs", s.handleTriggerRun)
	s.router.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(s.registry))
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// RecordRun replaces the status reported by /status.
func (s *Server) RecordRun(status RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = &status
}

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Error writes an error response.
func (s *Server) Error(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// Success writes a success response.
func (s *Server) Success(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	last := s.lastRun
	s.mu.RUnlock()

	s.Success(w, http.StatusOK, map[string]any{
		"version":  version.Version,
		"last_run": last,
	})
}

func (s *Server) handleTriggerRun(w http.ResponseWriter, _ *http.Request) {
	if s.trigger == nil {
		s.Error(w, http.StatusServiceUnavailable, "runs cannot be triggered")
		return
	}
	s.trigger("api")
	s.Success(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
