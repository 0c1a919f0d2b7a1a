// Package api - Thin API layer over the catalog importer
// The API is ONLY responsible for: triggering a run, reporting its outcome.
// The API NEVER performs pricing logic.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"outscale-cost/core/reconcile"
)

// Server exposes the catalog importer over HTTP.
type Server struct {
	engine  *reconcile.Engine
	mux     *http.ServeMux
	version string
	log     *zap.Logger

	// One import at a time; status holds the last outcome.
	mu      sync.Mutex
	running bool
	status  *RunStatus
}

// RunStatus is the recorded outcome of the last import run.
type RunStatus struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	DurationMs int64             `json:"duration_ms"`
	Force      bool              `json:"force"`
	Error      string            `json:"error,omitempty"`
	Result     *reconcile.Result `json:"result,omitempty"`
}

// NewServer creates the API server around an import engine.
func NewServer(engine *reconcile.Engine, version string, log *zap.Logger) *Server {
	s := &Server{
		engine:  engine,
		mux:     http.NewServeMux(),
		version: version,
		log:     log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /catalog/import", s.handleImport)
	s.mux.HandleFunc("GET /catalog/status", s.handleStatus)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleImport handles POST /catalog/import. Query parameter force=true
// rewrites unchanged prices.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.writeError(w, "IMPORT_RUNNING", "an import is already in progress", http.StatusConflict)
		return
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	result, err := s.engine.Run(r.Context(), force)

	status := &RunStatus{
		StartedAt:  start,
		FinishedAt: time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
		Force:      force,
		Result:     result,
	}
	if err != nil {
		status.Error = err.Error()
	}

	s.mu.Lock()
	s.running = false
	s.status = status
	s.mu.Unlock()

	if err != nil {
		s.log.Error("catalog import failed", zap.Error(err))
		s.writeError(w, "IMPORT_FAILED", err.Error(), http.StatusBadGateway)
		return
	}
	s.writeJSON(w, status, http.StatusOK)
}

// handleStatus handles GET /catalog/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	running := s.running
	status := s.status
	s.mu.Unlock()

	if status == nil {
		s.writeJSON(w, map[string]interface{}{"running": running}, http.StatusOK)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"running":  running,
		"last_run": status,
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": s.version,
		"engine":  "outscale-cost",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}
