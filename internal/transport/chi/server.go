// Package chi exposes the question answering pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/tools"
	healthuc "github.com/kailas-cloud/askdata/internal/usecase/health"
	"github.com/kailas-cloud/askdata/internal/usecase/pipeline"
)

// Pipeline answers questions over a dataset kind.
type Pipeline interface {
	Process(ctx context.Context, question string, kind domain.Kind, opts pipeline.Options) domain.Answer
}

// ToolLister lists the registered tool schemas.
type ToolLister interface {
	Schemas() []tools.Schema
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Question     string `json:"question"`
	Dataset      string `json:"dataset"`
	RiskCategory string `json:"risk_category,omitempty"`
	MaxResults   int    `json:"max_results,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
)

// Server holds the HTTP handlers.
type Server struct {
	pipeline Pipeline
	tools    ToolLister
	health   HealthChecker
	// maxResults holds per-dataset result caps applied when a request
	// omits max_results. Zero means no cap.
	maxResults map[domain.Kind]int
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(p Pipeline, t ToolLister, h HealthChecker, maxResults map[domain.Kind]int, logger *zap.Logger) *Server {
	return &Server{pipeline: p, tools: t, health: h, maxResults: maxResults, logger: logger}
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/ask", s.Ask)
	r.Get("/v1/tools", s.Tools)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Ask handles POST /v1/ask. Malformed requests get a 400; a valid request
// always gets a 200 with an answer, even when the pipeline degraded, so
// clients have a single success shape to parse.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Question == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "question is required")
		return
	}
	kind, ok := domain.ParseKind(req.Dataset)
	if !ok {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unknown dataset: "+req.Dataset)
		return
	}
	category, ok := domain.ParseRiskCategory(req.RiskCategory)
	if !ok {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unknown risk_category: "+req.RiskCategory)
		return
	}
	if req.MaxResults < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "max_results must not be negative")
		return
	}
	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = s.maxResults[kind]
	}

	answer := s.pipeline.Process(r.Context(), req.Question, kind, pipeline.Options{
		Category:   category,
		MaxResults: maxResults,
	})
	writeJSON(w, http.StatusOK, answer)
}

// Tools handles GET /v1/tools.
func (s *Server) Tools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": s.tools.Schemas(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
