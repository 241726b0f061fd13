package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/internal/runtime"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/ports"
	"github.com/aretw0/parcel/pkg/schema"
)

// RequiredAction is shown to the caller when a run pauses for input.
const RequiredAction = "Please provide missing data or review flagged issues"

// Service runs advisory requests end to end. It is safe for concurrent use.
type Service struct {
	machine *runtime.Machine
	writer  *Writer
	store   ports.ReportStore
	logger  *slog.Logger
	clock   func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithMachine replaces the flow state machine.
func WithMachine(m *runtime.Machine) Option {
	return func(s *Service) { s.machine = m }
}

// WithWriter enables narrative generation.
func WithWriter(w *Writer) Option {
	return func(s *Service) { s.writer = w }
}

// WithStore persists every report.
func WithStore(store ports.ReportStore) Option {
	return func(s *Service) { s.store = store }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source for report timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides how report IDs are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService creates a Service. Without WithWriter reports carry no narrative;
// without WithStore they are not persisted and cannot be resubmitted.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger: logging.NewNop(),
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.machine == nil {
		s.machine = runtime.NewMachine(runtime.WithLogger(s.logger))
	}
	return s
}

// Machine returns the flow state machine the service runs.
func (s *Service) Machine() *runtime.Machine {
	return s.machine
}

type request struct {
	skipGeneration bool
	parentID       string
}

// AnalyzeOption adjusts a single request.
type AnalyzeOption func(*request)

// WithoutGeneration skips narrative generation even when a writer is configured.
func WithoutGeneration() AnalyzeOption {
	return func(r *request) { r.skipGeneration = true }
}

func withParent(id string) AnalyzeOption {
	return func(r *request) { r.parentID = id }
}

// Analyze runs one advisory request and returns its report. Flow failures and
// rejected generation are reported through the report status; the returned
// error is reserved for persistence failures.
func (s *Service) Analyze(ctx context.Context, input domain.PropertyInput, strategy domain.Strategy, opts ...AnalyzeOption) (*domain.Report, error) {
	var req request
	for _, opt := range opts {
		opt(&req)
	}

	report := &domain.Report{
		ID:        s.newID(),
		CreatedAt: s.clock(),
		Strategy:  strategy,
		Property:  input.Clone(),
		ParentID:  req.parentID,
	}
	logger := s.logger.With("run_id", report.ID)

	runOpts := []runtime.RunOption{runtime.WithRunID(report.ID)}
	if prelim := Preliminary(input); prelim != nil {
		report.Preliminary = prelim
		runOpts = append(runOpts, runtime.WithMetrics(prelim))
	}

	flow := s.machine.Run(ctx, input, strategy, runOpts...)
	report.Flow = flow
	report.Summary = flow.Summary()

	switch {
	case flow.HumanInputRequired:
		report.Status = domain.StatusPendingHumanInput
		report.RequiredAction = RequiredAction
		report.RequiredData = requiredData(flow, input)
	case flow.FinalState == domain.StateCompleted:
		report.Status = domain.StatusCompleted
		if s.writer != nil && !req.skipGeneration {
			s.generate(ctx, logger, report)
		}
	default:
		report.Status = domain.StatusFailed
		report.Error = flowError(flow)
	}

	logger.Info("Advisory request finished", "status", report.Status, "sections", len(report.Sections))

	if s.store != nil {
		if err := s.store.Save(ctx, report); err != nil {
			return report, fmt.Errorf("save report %s: %w", report.ID, err)
		}
	}
	return report, nil
}

// Resubmit merges patch into the input of a paused run and analyzes it again.
// The new report records the paused run as its parent.
func (s *Service) Resubmit(ctx context.Context, id string, patch domain.PropertyInput, opts ...AnalyzeOption) (*domain.Report, error) {
	if s.store == nil {
		return nil, fmt.Errorf("resubmit %s: %w", id, domain.ErrRunNotFound)
	}
	prev, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resubmit %s: %w", id, err)
	}
	if prev.Status != domain.StatusPendingHumanInput {
		return nil, fmt.Errorf("resubmit %s (%s): %w", id, prev.Status, domain.ErrNotResubmittable)
	}
	return s.Analyze(ctx, prev.Property.Merge(patch), prev.Strategy, append(opts, withParent(id))...)
}

// Load returns a stored report.
func (s *Service) Load(ctx context.Context, id string) (*domain.Report, error) {
	if s.store == nil {
		return nil, domain.ErrRunNotFound
	}
	return s.store.Load(ctx, id)
}

// List returns the IDs of stored reports.
func (s *Service) List(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return []string{}, nil
	}
	return s.store.List(ctx)
}

func (s *Service) generate(ctx context.Context, logger *slog.Logger, report *domain.Report) {
	task := ports.Task{
		Strategy: report.Strategy,
		Property: report.Property,
		Metrics:  report.Preliminary,
		Results:  report.Flow.Results,
	}
	for _, kind := range domain.TaskKinds {
		task.Kind = kind
		task.Feedback = ""
		section, err := s.writer.Write(ctx, task)
		if err != nil {
			logger.Error("Generation failed", "task", kind, "error", err)
			report.Status = domain.StatusFailed
			report.Error = err.Error()
			return
		}
		report.Sections = append(report.Sections, section)
		if kind == domain.TaskFinalRecommendation {
			report.Recommendation = section.Text
		}
	}
}

// Preliminary computes the metrics of input when every required field is
// present and well typed. It returns nil otherwise, leaving the decision to
// the flow.
func Preliminary(input domain.PropertyInput) *domain.FinancialMetrics {
	if len(input.Missing(domain.RequiredFields)) > 0 {
		return nil
	}
	if err := schema.ValidateProperty(input); err != nil {
		return nil
	}
	details, err := input.Details()
	if err != nil {
		return nil
	}
	res := finance.Run(finance.FromProperty(details))
	if !res.OK() {
		return nil
	}
	return res.FinancialMetrics
}

func requiredData(flow *domain.RunResult, input domain.PropertyInput) []string {
	if action, ok := flow.Results[domain.SignalInsufficientData.ResultKey()].(domain.DecisionAction); ok {
		return action.RequiredData
	}
	return input.Missing(domain.DataRequirements)
}

func flowError(flow *domain.RunResult) string {
	for i := len(flow.Events) - 1; i >= 0; i-- {
		e := flow.Events[i]
		if e.Type != domain.EventError {
			continue
		}
		if msg, ok := e.Data["error"].(string); ok {
			return fmt.Sprintf("Flow ended in unexpected state: %s: %s", flow.FinalState, msg)
		}
	}
	return fmt.Sprintf("Flow ended in unexpected state: %s", flow.FinalState)
}
