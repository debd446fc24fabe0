// Package chi exposes the HTTP API over a go-chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/search/request"
	complaintuc "github.com/civicdesk/minwon/internal/usecase/complaint"
	healthuc "github.com/civicdesk/minwon/internal/usecase/health"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
)

// Machine-readable error codes returned alongside HTTP statuses.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeComplaintNotFound  = "complaint_not_found"
	codeUnknownCategory    = "unknown_category"
	codeRateLimited        = "rate_limited"
	codeEmbeddingProvider  = "embedding_provider_error"
	codeChatProvider       = "chat_provider_error"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecases into HTTP handlers.
type Server struct {
	search        *searchuc.Service
	complaints    *complaintuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	complaints *complaintuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:     search,
		complaints: complaints,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrComplaintNotFound, http.StatusNotFound, codeComplaintNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeComplaintNotFound),
		sentinelHandler(domain.ErrUnknownCategory, http.StatusBadRequest, codeUnknownCategory),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatProvider),
	}
	return s
}

// RegisterRoutes mounts all API routes on the given router.
// Middleware belongs to the caller.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search/similar", s.SearchSimilar)

		r.Route("/complaints", func(r chi.Router) {
			r.Post("/", s.SubmitComplaint)
			r.Get("/", s.ListComplaints)
			r.Get("/{number}", s.GetComplaint)
			r.Post("/{number}/draft", s.DraftResponse)
			r.Post("/{number}/assist", s.Assist)
		})
	})
}

// SearchSimilar handles POST /api/v1/search/similar.
func (s *Server) SearchSimilar(w http.ResponseWriter, r *http.Request) {
	var req searchSimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	searchReq, err := request.New(req.Text, req.TopK, req.Threshold)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, &searchReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToDTO(resp, usage))
}

// SubmitComplaint handles POST /api/v1/complaints.
func (s *Server) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	var req submitComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	c, err := s.complaints.Submit(ctx, req.Title, req.Content, req.Category)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, complaintToDTO(&c, usage))
}

// GetComplaint handles GET /api/v1/complaints/{number}.
func (s *Server) GetComplaint(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	c, err := s.complaints.Get(r.Context(), number)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, complaintToDTO(&c, nil))
}

// ListComplaints handles GET /api/v1/complaints.
func (s *Server) ListComplaints(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limit := parseLimit(r.URL.Query().Get("limit"))

	items, next, err := s.complaints.List(r.Context(), cursor, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	total, err := s.complaints.Count(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, complaintListToDTO(items, next, total))
}

// DraftResponse handles POST /api/v1/complaints/{number}/draft.
// With an empty body it generates a draft guideline; with
// {"accept": true, "response": "..."} it records the accepted response.
func (s *Server) DraftResponse(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	var req draftRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	if req.Accept {
		c, err := s.complaints.AcceptResponse(r.Context(), number, req.Response)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, complaintToDTO(&c, nil))
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	draft, err := s.complaints.Draft(ctx, number)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{Draft: draft, Usage: usageToDTO(usage)})
}

// Assist handles POST /api/v1/complaints/{number}/assist.
func (s *Server) Assist(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	var req assistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	answer, err := s.complaints.Assist(ctx, number, req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assistResponse{Answer: answer, Usage: usageToDTO(usage)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToDTO(report))
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
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrComplaintNotFound,
		domain.ErrNotFound,
		domain.ErrUnknownCategory,
		domain.ErrInvalidArgument,
		domain.ErrVectorDimMismatch,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
