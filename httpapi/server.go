// Package httpapi exposes the assistant over HTTP. It wires the document
// store, text extraction, and task orchestration behind a chi router with
// Prometheus instrumentation.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/docsense/assistant"
	"github.com/c360studio/docsense/extract"
	"github.com/c360studio/docsense/store"
)

// maxUploadSize caps document uploads.
const maxUploadSize = 50 * 1024 * 1024 // 50MB

// Server handles the document comprehension API.
type Server struct {
	docs       *store.DocumentStore
	extractors *extract.Registry
	assistant  *assistant.Assistant
	logger     *slog.Logger
	registry   *prometheus.Registry
	metrics    *httpMetrics
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsRegistry sets the Prometheus registry backing /metrics.
// Callers can register their own collectors (completion metrics, Go
// runtime) on the same registry.
func WithMetricsRegistry(reg *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewServer creates the API server.
func NewServer(docs *store.DocumentStore, extractors *extract.Registry, asst *assistant.Assistant, opts ...ServerOption) *Server {
	s := &Server{
		docs:       docs,
		extractors: extractors,
		assistant:  asst,
		logger:     slog.Default(),
		registry:   prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.metrics = newHTTPMetrics(s.registry)

	return s
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Post("/upload-document", s.handleUploadDocument)
	r.Post("/ask-question", s.handleAskQuestion)
	r.Post("/generate-challenge", s.handleGenerateChallenge)
	r.Post("/evaluate-answer", s.handleEvaluateAnswer)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// respondJSON writes a JSON response with the given status.
func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("Writing response failed", "error", err)
	}
}

// respondError writes a JSON error body.
func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
