// Package status exposes health, metrics and the project HTTP API.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/storyforge/internal/connectivity"
	"github.com/vietddude/storyforge/internal/resilience/queue"
	"github.com/vietddude/storyforge/internal/story"
)

// SystemStatus represents the overall health state.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
)

// Report contains the detailed health report.
type Report struct {
	Status      SystemStatus     `json:"status"`
	Online      bool             `json:"online"`
	QueueSize   int              `json:"queue_size"`
	Pending     int              `json:"pending"`
	Items       []queue.Snapshot `json:"items,omitempty"`
	Recovered   []queue.Snapshot `json:"recovered,omitempty"`
	FailedItems int              `json:"failed_items"`
}

// Server provides HTTP endpoints for health monitoring and project access.
type Server struct {
	svc     *story.Service
	queue   *queue.Manager
	monitor *connectivity.Monitor
	server  *http.Server
}

// NewServer creates a new status server.
func NewServer(svc *story.Service, q *queue.Manager, monitor *connectivity.Monitor, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		svc:     svc,
		queue:   q,
		monitor: monitor,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleDetailed)
	mux.HandleFunc("POST /health/probe", s.handleProbe)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/export", s.handleExport)
	mux.HandleFunc("POST /api/projects/{id}/chapters", s.handleSaveChapter)
	mux.HandleFunc("POST /api/projects/{id}/generate/{kind}", s.handleGenerate)

	return s
}

// Handler returns the underlying handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) report() Report {
	items := s.queue.Items()
	failed := 0
	for _, it := range items {
		if it.Status == queue.StatusFailed {
			failed++
		}
	}

	r := Report{
		Status:      StatusHealthy,
		Online:      s.queue.Online(),
		QueueSize:   len(items),
		Pending:     s.queue.PendingCount(),
		Items:       items,
		Recovered:   s.queue.Recovered(),
		FailedItems: failed,
	}
	if !r.Online || failed > 0 {
		r.Status = StatusDegraded
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.report()
	writeJSON(w, http.StatusOK, map[string]string{"status": string(report.Status)})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.report())
}

// handleProbe forces an immediate connectivity check instead of waiting for
// the next scheduled probe.
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	online := s.monitor.Probe(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"online": online})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
