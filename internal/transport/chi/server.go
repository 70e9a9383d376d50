// Package chi exposes the retrieval service over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
	healthuc "github.com/kailas-cloud/convsearch/internal/usecase/health"
	interactionuc "github.com/kailas-cloud/convsearch/internal/usecase/interaction"
	retrievaluc "github.com/kailas-cloud/convsearch/internal/usecase/retrieval"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the search API.
type Server struct {
	retrieval     *retrievaluc.Service
	interactions  *interactionuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. interactions can be nil when no
// database is configured; /search then skips conversation logging.
func NewServer(
	retrieval *retrievaluc.Service,
	interactions *interactionuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval:    retrieval,
		interactions: interactions,
		health:       health,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		searchAPIStatusHandler,
		sentinelHandler(domain.ErrUnsupportedTextFormat, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrQueryGeneration, http.StatusBadGateway, CodeQueryGenerationFailed),
		sentinelHandler(domain.ErrEngine, http.StatusBadGateway, CodeEngineError),
		sentinelHandler(domain.ErrSearchAPI, http.StatusBadGateway, CodeSearchAPIError),
		sentinelHandler(domain.ErrPageFetch, http.StatusBadGateway, CodePageFetchFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	}
	return s
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/search", s.Search)
	r.Get("/interactions/{user_id}", s.GetInteractions)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Conversation) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Conversation is required")
		return
	}

	conv := make([]domain.Message, len(req.Conversation))
	for i, m := range req.Conversation {
		conv[i] = messageToDomain(m, req.UserID)
	}

	// The newest turn is logged before retrieval so the history survives
	// even when retrieval fails.
	if s.interactions != nil && conv[0].UserID != "" {
		if _, err := s.interactions.Record(r.Context(), conv[0]); err != nil {
			s.logger.Warn("Failed to record interaction", zap.Error(err))
		}
	}

	docs, err := s.retrieval.GetResults(r.Context(), conv)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]SearchResult, len(docs))
	for i, d := range docs {
		results[i] = resultFromDomain(d)
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// GetInteractions handles GET /interactions/{user_id}.
func (s *Server) GetInteractions(w http.ResponseWriter, r *http.Request) {
	if s.interactions == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "interaction log not configured")
		return
	}

	userID := chirouter.URLParam(r, "user_id")
	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = parsed
	}

	msgs, err := s.interactions.History(r.Context(), userID, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = messageFromDomain(m)
	}
	writeJSON(w, http.StatusOK, HistoryResponse{UserID: userID, Messages: out})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
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

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUnsupportedTextFormat,
		domain.ErrQueryGeneration,
		domain.ErrEngine,
		domain.ErrSearchAPI,
		domain.ErrPageFetch,
		domain.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// searchAPIStatusHandler surfaces the upstream status of a search API failure.
func searchAPIStatusHandler(w http.ResponseWriter, err error, msg string) bool {
	var apiErr *domain.SearchAPIError
	if !errors.As(err, &apiErr) {
		return false
	}
	status := http.StatusBadGateway
	code := CodeSearchAPIError
	if apiErr.StatusCode == http.StatusTooManyRequests {
		status = http.StatusTooManyRequests
		code = CodeRateLimited
	}
	writeJSON(w, status, map[string]any{
		"code":            code,
		"message":         msg,
		"upstream_status": apiErr.StatusCode,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
