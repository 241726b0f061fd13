// Package mcp exposes an Advisor as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/parcel"
	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/internal/sanitize"
	"github.com/aretw0/parcel/pkg/advisory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/guardrail"
)

const graphURI = "parcel://graph"

// Advisor is the part of parcel.Advisor the tools call.
type Advisor interface {
	Analyze(ctx context.Context, input domain.PropertyInput, strategy string, opts ...advisory.AnalyzeOption) (*domain.Report, error)
	Resubmit(ctx context.Context, runID string, patch domain.PropertyInput, opts ...advisory.AnalyzeOption) (*domain.Report, error)
	Report(ctx context.Context, runID string) (*domain.Report, error)
	Calculate(in finance.Inputs) finance.Result
	Validate(text, task string) ([]guardrail.Outcome, error)
	ValidateChecks(text string, checks []string) ([]guardrail.Outcome, error)
	Graph(run *domain.RunResult) string
}

var _ Advisor = (*parcel.Advisor)(nil)

// AnalyzeInput is the argument object of analyze_property.
type AnalyzeInput struct {
	Property domain.PropertyInput `json:"property"`
	Strategy string               `json:"strategy"`
	Generate *bool                `json:"generate,omitempty"`
}

// ResubmitInput is the argument object of resubmit_analysis.
type ResubmitInput struct {
	RunID    string               `json:"run_id"`
	Property domain.PropertyInput `json:"property"`
	Generate *bool                `json:"generate,omitempty"`
}

// ValidateInput is the argument object of validate_text.
type ValidateInput struct {
	Text   string   `json:"text"`
	Task   string   `json:"task,omitempty"`
	Checks []string `json:"checks,omitempty"`
}

// ValidateResult is the structured answer of validate_text.
type ValidateResult struct {
	Passed   bool                `json:"passed" jsonschema_description:"True when every applied check accepted the text"`
	Outcomes []guardrail.Outcome `json:"outcomes" jsonschema_description:"Verdict of each applied check"`
}

// Server wraps an Advisor and exposes it as an MCP server.
type Server struct {
	advisor   Advisor
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server. A nil logger discards output.
func NewServer(adv Advisor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		advisor: adv,
		logger:  logger,
		mcpServer: server.NewMCPServer("parcel-mcp", parcel.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on Stdin/Stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// ServeSSE serves over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("calculate_financials",
		mcp.WithDescription("Compute investment metrics for a purchase. Omitted assumptions use defaults."),
		mcp.WithNumber("purchase_price", mcp.Required(), mcp.Description("Purchase price in dollars")),
		mcp.WithNumber("annual_rent", mcp.Required(), mcp.Description("Gross annual rent")),
		mcp.WithNumber("annual_operating_expenses", mcp.Required(), mcp.Description("Annual operating expenses")),
		mcp.WithNumber("down_payment_percent", mcp.Required(), mcp.Description("Down payment, 0 to 100")),
		mcp.WithNumber("interest_rate", mcp.Required(), mcp.Description("Annual interest rate in percent")),
		mcp.WithNumber("loan_term_years", mcp.Description("Loan term, default 30")),
		mcp.WithNumber("appreciation_rate", mcp.Description("Annual appreciation in percent, default 3")),
		mcp.WithNumber("hold_period_years", mcp.Description("Hold period, default 5")),
		mcp.WithNumber("closing_costs_percent", mcp.Description("Closing costs in percent, default 3")),
		mcp.WithNumber("selling_costs_percent", mcp.Description("Selling costs in percent, default 6")),
	), s.handleCalculate)

	s.mcpServer.AddTool(mcp.NewTool("analyze_property",
		mcp.WithDescription("Run the full advisory flow for a property and return the report."),
		mcp.WithObject("property", mcp.Required(), mcp.Description("Property fields such as purchase_price and estimated_monthly_rent")),
		mcp.WithString("strategy", mcp.Required(),
			mcp.Description("Investment strategy"),
			mcp.Enum(domain.StrategyPassiveIncome.String(), domain.StrategyAggressiveGrowth.String(), domain.StrategyFixAndFlip.String()),
		),
		mcp.WithBoolean("generate", mcp.Description("Generate the narrative sections, default true")),
	), s.handleAnalyze)

	s.mcpServer.AddTool(mcp.NewTool("resubmit_analysis",
		mcp.WithDescription("Complete a run that paused for missing data."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("ID of the paused run")),
		mcp.WithObject("property", mcp.Required(), mcp.Description("Fields to add or replace")),
		mcp.WithBoolean("generate", mcp.Description("Generate the narrative sections, default true")),
	), s.handleResubmit)

	s.mcpServer.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Load a stored advisory report."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID")),
	), s.handleGetReport)

	s.mcpServer.AddTool(mcp.NewTool("validate_text",
		mcp.WithDescription("Check advisory text against the compliance policy."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to check")),
		mcp.WithString("task", mcp.Description("Generation task whose checks apply, default final_recommendation")),
		mcp.WithArray("checks", mcp.Description("Explicit check names, overriding task"), mcp.WithStringItems()),
		mcp.WithOutputSchema[ValidateResult](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("get_flow_graph",
		mcp.WithDescription("Render the advisory flow as a Mermaid flowchart, optionally highlighting a run."),
		mcp.WithString("run_id", mcp.Description("Run to highlight (optional)")),
	), s.handleGraph)
}

func (s *Server) handleCalculate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := finance.DefaultInputs()
	if err := request.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid calculation arguments", err), nil
	}
	res := s.advisor.Calculate(in)
	if !res.OK() {
		return mcp.NewToolResultError(res.Error), nil
	}
	return structured(res)
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input AnalyzeInput
	if err := request.BindArguments(&input); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid analysis arguments", err), nil
	}
	if len(input.Property) == 0 {
		return mcp.NewToolResultError("property is required"), nil
	}
	property, err := sanitize.Property(input.Property)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid property", err), nil
	}
	report, err := s.advisor.Analyze(ctx, property, input.Strategy, analyzeOptions(input.Generate)...)
	if err != nil {
		s.logger.Warn("MCP analyze failed", "error", err)
		return mcp.NewToolResultErrorFromErr("analysis failed", err), nil
	}
	return structured(report)
}

func (s *Server) handleResubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ResubmitInput
	if err := request.BindArguments(&input); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid resubmit arguments", err), nil
	}
	patch, err := sanitize.Property(input.Property)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid property", err), nil
	}
	report, err := s.advisor.Resubmit(ctx, input.RunID, patch, analyzeOptions(input.Generate)...)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("resubmit failed", err), nil
	}
	return structured(report)
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("run_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.advisor.Report(ctx, id)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("load report", err), nil
	}
	return structured(report)
}

func (s *Server) handleValidate(_ context.Context, _ mcp.CallToolRequest, input ValidateInput) (ValidateResult, error) {
	text, err := sanitize.Text(input.Text, sanitize.MaxTextSize)
	if err != nil {
		return ValidateResult{}, err
	}

	var outcomes []guardrail.Outcome
	if len(input.Checks) > 0 {
		outcomes, err = s.advisor.ValidateChecks(text, input.Checks)
	} else {
		outcomes, err = s.advisor.Validate(text, input.Task)
	}
	if err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{Passed: guardrail.Passed(outcomes), Outcomes: outcomes}, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("run_id", "")
	if id == "" {
		return mcp.NewToolResultText(s.advisor.Graph(nil)), nil
	}
	report, err := s.advisor.Report(ctx, id)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("load report", err), nil
	}
	return mcp.NewToolResultText(s.advisor.Graph(report.Flow)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Advisory flow graph",
		mcp.WithResourceDescription("Mermaid flowchart of the advisory stages"),
		mcp.WithMIMEType("text/plain"),
	), func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "text/plain",
				Text:     s.advisor.Graph(nil),
			},
		}, nil
	})
}

func analyzeOptions(generate *bool) []advisory.AnalyzeOption {
	if generate != nil && !*generate {
		return []advisory.AnalyzeOption{advisory.WithoutGeneration()}
	}
	return nil
}

func structured(v any) (*mcp.CallToolResult, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultStructured(v, string(text)), nil
}
