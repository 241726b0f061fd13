// Package http exposes an Advisor over a JSON API described by an embedded
// OpenAPI document.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/parcel"
	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/internal/sanitize"
	"github.com/aretw0/parcel/pkg/advisory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/guardrail"
)

// Advisor is the part of parcel.Advisor the API serves.
type Advisor interface {
	Analyze(ctx context.Context, input domain.PropertyInput, strategy string, opts ...advisory.AnalyzeOption) (*domain.Report, error)
	Resubmit(ctx context.Context, runID string, patch domain.PropertyInput, opts ...advisory.AnalyzeOption) (*domain.Report, error)
	Report(ctx context.Context, runID string) (*domain.Report, error)
	Runs(ctx context.Context) ([]string, error)
	Calculate(in finance.Inputs) finance.Result
	Validate(text, task string) ([]guardrail.Outcome, error)
	ValidateChecks(text string, checks []string) ([]guardrail.Outcome, error)
	Graph(run *domain.RunResult) string
}

//go:generate go tool oapi-codegen -package http -generate types,chi-server -o api.gen.go openapi.yaml

var _ Advisor = (*parcel.Advisor)(nil)

// Server implements the generated ServerInterface.
type Server struct {
	Advisor  Advisor
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	apiVersion string
}

var _ ServerInterface = (*Server)(nil)

// Option configures NewHandler.
type Option func(*config)

type config struct {
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	validate bool
}

// WithGatherer serves the gatherer's metrics at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *config) { c.gatherer = g }
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRequestValidation checks request bodies against the OpenAPI document
// before they reach a handler.
func WithRequestValidation() Option {
	return func(c *config) { c.validate = true }
}

// NewHandler creates the HTTP handler for adv. It fails only if the embedded
// OpenAPI document is invalid.
func NewHandler(adv Advisor, opts ...Option) (http.Handler, error) {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{Advisor: adv, Gatherer: cfg.gatherer, Logger: cfg.logger, apiVersion: "unknown"}
	if doc.Info != nil {
		s.apiVersion = doc.Info.Version
	}

	r := chi.NewRouter()
	if cfg.validate {
		mw, err := requestValidator(doc, cfg.logger)
		if err != nil {
			return nil, err
		}
		r.Use(mw)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	HandlerWithOptions(s, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: s.paramError,
	})
	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type validateResponse struct {
	Passed   bool                `json:"passed"`
	Outcomes []guardrail.Outcome `json:"outcomes"`
}

func analyzeOptions(generate *bool) []advisory.AnalyzeOption {
	if generate != nil && !*generate {
		return []advisory.AnalyzeOption{advisory.WithoutGeneration()}
	}
	return nil
}

// Analyze handles POST /analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	if len(body.Property) == 0 {
		writeError(w, s.Logger, http.StatusBadRequest, errors.New("property is required"))
		return
	}

	property, err := sanitize.Property(domain.PropertyInput(body.Property))
	if err != nil {
		s.fail(w, "Analyze", err)
		return
	}

	report, err := s.Advisor.Analyze(r.Context(), property, body.Strategy, analyzeOptions(body.Generate)...)
	if err != nil {
		s.fail(w, "Analyze", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, report)
}

// Calculate handles POST /calculate. Omitted optional inputs keep their
// defaults; engine rejections answer 422 with the error payload.
func (s *Server) Calculate(w http.ResponseWriter, r *http.Request) {
	var body CalculateJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	res := s.Advisor.Calculate(calculateInputs(body))
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, s.Logger, status, res)
}

// ValidateText handles POST /validate. Explicit checks take precedence over
// the task subset.
func (s *Server) ValidateText(w http.ResponseWriter, r *http.Request) {
	var body ValidateTextJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}

	text, err := sanitize.Text(body.Text, sanitize.MaxTextSize)
	if err != nil {
		s.fail(w, "Validate", err)
		return
	}

	var outcomes []guardrail.Outcome
	if body.Checks != nil && len(*body.Checks) > 0 {
		outcomes, err = s.Advisor.ValidateChecks(text, *body.Checks)
	} else {
		var task string
		if body.Task != nil {
			task = *body.Task
		}
		outcomes, err = s.Advisor.Validate(text, task)
	}
	if err != nil {
		s.fail(w, "Validate", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, validateResponse{Passed: guardrail.Passed(outcomes), Outcomes: outcomes})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Advisor.Runs(r.Context())
	if err != nil {
		s.fail(w, "ListRuns", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, map[string][]string{"runs": ids})
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request, id RunID) {
	report, err := s.Advisor.Report(r.Context(), id)
	if err != nil {
		s.fail(w, "GetRun", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, report)
}

// ResubmitRun handles POST /runs/{id}/resubmit.
func (s *Server) ResubmitRun(w http.ResponseWriter, r *http.Request, id RunID) {
	var body ResubmitRunJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	patch, err := sanitize.Property(domain.PropertyInput(body.Property))
	if err != nil {
		s.fail(w, "ResubmitRun", err)
		return
	}
	report, err := s.Advisor.Resubmit(r.Context(), id, patch, analyzeOptions(body.Generate)...)
	if err != nil {
		s.fail(w, "ResubmitRun", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, report)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, _ *http.Request) {
	writeText(w, s.Advisor.Graph(nil))
}

// GetRunGraph handles GET /runs/{id}/graph.
func (s *Server) GetRunGraph(w http.ResponseWriter, r *http.Request, id RunID) {
	report, err := s.Advisor.Report(r.Context(), id)
	if err != nil {
		s.fail(w, "GetRunGraph", err)
		return
	}
	writeText(w, s.Advisor.Graph(report.Flow))
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":         "parcel-http",
		"version":     parcel.Version,
		"api_version": s.apiVersion,
	})
}

// calculateInputs lays the request over the engine defaults so omitted
// optional assumptions keep their default values.
func calculateInputs(body CalculateRequest) finance.Inputs {
	in := finance.DefaultInputs()
	in.PurchasePrice = body.PurchasePrice
	in.AnnualRent = body.AnnualRent
	in.AnnualOperatingExpenses = body.AnnualOperatingExpenses
	in.DownPaymentPercent = body.DownPaymentPercent
	in.InterestRate = body.InterestRate
	if body.LoanTermYears != nil {
		in.LoanTermYears = *body.LoanTermYears
	}
	if body.AppreciationRate != nil {
		in.AppreciationRate = *body.AppreciationRate
	}
	if body.HoldPeriodYears != nil {
		in.HoldPeriodYears = *body.HoldPeriodYears
	}
	if body.ClosingCostsPercent != nil {
		in.ClosingCostsPercent = *body.ClosingCostsPercent
	}
	if body.SellingCostsPercent != nil {
		in.SellingCostsPercent = *body.SellingCostsPercent
	}
	return in
}

func (s *Server) paramError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Warn("Invalid request parameter", "path", r.URL.Path, "error", err)
	writeError(w, s.Logger, http.StatusBadRequest, err)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, s.Logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "error", err)
	} else {
		s.Logger.Warn(op+" rejected", "error", err)
	}
	writeError(w, s.Logger, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotResubmittable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownStrategy),
		errors.Is(err, domain.ErrUnknownTask),
		errors.Is(err, guardrail.ErrUnknownCheck),
		errors.Is(err, sanitize.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, sanitize.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	writeJSON(w, logger, status, Error{Error: err.Error()})
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(body))
}
