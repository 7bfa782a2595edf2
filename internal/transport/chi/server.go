// Package chi is the HTTP transport: JSON handlers over chi routing, a
// sentinel-to-status error chain, and bearer auth.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/analysis"
	"github.com/arbiterhq/arbiter/internal/domain/record"
	domusage "github.com/arbiterhq/arbiter/internal/domain/usage"
	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
	corpusuc "github.com/arbiterhq/arbiter/internal/usecase/corpus"
	healthuc "github.com/arbiterhq/arbiter/internal/usecase/health"
	usageuc "github.com/arbiterhq/arbiter/internal/usecase/usage"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the analysis pipeline and the corpus over HTTP.
type Server struct {
	analyze       *analyzeuc.Service
	corpus        *corpusuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	analyze *analyzeuc.Service,
	corpus *corpusuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		analyze: analyze,
		corpus:  corpus,
		usage:   usage,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingSummary, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrTooFewOptions, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDuplicateOption, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrOptionNotFound, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidOutcome, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, codeRecordNotFound),
		sentinelHandler(domain.ErrCorpusUnavailable, http.StatusServiceUnavailable, codeCorpusUnavailable),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrOracleQuotaExceeded, http.StatusPaymentRequired, codeQuotaExceeded),
		sentinelHandler(domain.ErrOracleUnavailable, http.StatusBadGateway, codeOracleUnavailable),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, codeNotImplemented),
	}
	return s
}

// Register mounts every API route on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/analyze", s.AnalyzeDecision)
	r.Post("/v1/estimate", s.EstimateAnalysis)
	r.Route("/v1/corpus/records", func(r chi.Router) {
		r.Get("/", s.ListRecords)
		r.Post("/", s.CreateRecord)
		r.Get("/{id}", s.GetRecord)
		r.Patch("/{id}", s.UpdateRecordOutcome)
	})
	r.Get("/v1/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// AnalyzeDecision handles POST /v1/analyze.
func (s *Server) AnalyzeDecision(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	dc, err := decisionFromPayload(req.decisionPayload)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	flags := analysis.Flags{
		SkipFingerprint: req.Flags.SkipFingerprinting,
		SkipSimilar:     req.Flags.SkipSimilarSearch,
		ForceDeep:       req.Flags.ForceDeepAnalysis,
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.analyze.Analyze(ctx, analysis.NewRequest(dc, flags))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setOracleHeaders(w, usage)
	writeJSON(w, http.StatusOK, resultToResponse(&res))
}

// EstimateAnalysis handles POST /v1/estimate.
func (s *Server) EstimateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	est := analyzeuc.Estimate(req.OptionCount, req.HasConstraints)
	writeJSON(w, http.StatusOK, estimateResponse{EstimatedSeconds: int(est.Seconds())})
}

// CreateRecord handles POST /v1/corpus/records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	dc, err := decisionFromPayload(req.Decision)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	rec, err := s.corpus.Add(r.Context(), dc, req.ChosenOption, record.Outcome(req.Outcome), req.Lessons)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/corpus/records/"+rec.ID())
	writeJSON(w, http.StatusCreated, recordToResponse(rec))
}

// ListRecords handles GET /v1/corpus/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.corpus.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]recordResponse, len(recs))
	for i, rec := range recs {
		items[i] = recordToResponse(rec)
	}

	writeJSON(w, http.StatusOK, recordListResponse{Items: items, Total: len(items)})
}

// GetRecord handles GET /v1/corpus/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.corpus.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// UpdateRecordOutcome handles PATCH /v1/corpus/records/{id}.
func (s *Server) UpdateRecordOutcome(w http.ResponseWriter, r *http.Request) {
	var req updateOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, err := s.corpus.UpdateOutcome(r.Context(), chi.URLParam(r, "id"), record.Outcome(req.Outcome), req.Lessons)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// GetUsage handles GET /v1/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := domusage.PeriodDay
	if p := r.URL.Query().Get("period"); p != "" {
		period = domusage.Normalize(domusage.Period(p))
	}

	report := s.usage.GetReport(r.Context(), period)

	resp := usageResponse{
		Period:   string(report.Period()),
		Provider: report.Provider(),
		Usage: usageMetricsResponse{
			OracleCalls: report.Metrics().OracleCalls(),
			Tokens:      report.Metrics().Tokens(),
		},
		Budget: budgetStatusResponse{
			TokensLimit:     report.Budget().TokensLimit(),
			TokensRemaining: report.Budget().TokensRemaining(),
			IsExhausted:     report.Budget().IsExhausted(),
		},
	}

	if report.PeriodStart() > 0 {
		start := unixMilliUTC(report.PeriodStart())
		end := unixMilliUTC(report.PeriodEnd())
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	if report.Budget().ResetsAt() > 0 {
		resetsAt := unixMilliUTC(report.Budget().ResetsAt())
		resp.Budget.ResetsAt = &resetsAt
	}

	writeJSON(w, http.StatusOK, resp)
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

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setOracleHeaders(w http.ResponseWriter, usage *domain.OracleUsage) {
	if usage != nil && usage.Calls > 0 {
		w.Header().Set("X-Oracle-Calls", strconv.Itoa(usage.Calls))
		w.Header().Set("X-Oracle-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func unixMilliUTC(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMissingSummary,
		domain.ErrTooFewOptions,
		domain.ErrDuplicateOption,
		domain.ErrOptionNotFound,
		domain.ErrInvalidOutcome,
		domain.ErrRecordNotFound,
		domain.ErrCorpusUnavailable,
		domain.ErrRateLimited,
		domain.ErrOracleQuotaExceeded,
		domain.ErrOracleUnavailable,
		domain.ErrNotImplemented,
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
