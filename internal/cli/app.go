// Package cli implements the commands of the parcel binary on top of a
// configured Advisor.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/parcel"
	"github.com/aretw0/parcel/internal/presentation/tui"
	"github.com/aretw0/parcel/internal/sanitize"
	"github.com/aretw0/parcel/pkg/adapters/loam"
	httpadapter "github.com/aretw0/parcel/pkg/adapters/http"
	"github.com/aretw0/parcel/pkg/adapters/mcp"
	"github.com/aretw0/parcel/pkg/advisory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/guardrail"
	"github.com/aretw0/parcel/pkg/ports"
)

// App runs commands against a Wiring and writes results to Out.
// With JSON set every command writes JSON instead of markdown.
type App struct {
	*Wiring
	Out  io.Writer
	In   io.Reader
	JSON bool
}

func (a *App) print(markdown string, v any) error {
	if a.JSON {
		return writeJSON(a.Out, v)
	}
	return tui.Print(a.Out, markdown)
}

func (a *App) printReport(r *domain.Report) error {
	return a.print(tui.ReportMarkdown(r), r)
}

func generation(generate bool) []advisory.AnalyzeOption {
	if generate {
		return nil
	}
	return []advisory.AnalyzeOption{advisory.WithoutGeneration()}
}

// Analyze runs one advisory request for the property at path.
func (a *App) Analyze(ctx context.Context, path, strategy string, generate bool) (*domain.Report, error) {
	input, err := ReadProperty(path, a.In)
	if err != nil {
		return nil, err
	}
	report, err := a.Advisor.Analyze(ctx, input, strategy, generation(generate)...)
	if err != nil {
		return nil, err
	}
	return report, a.printReport(report)
}

// Resubmit completes a paused run with key=value fields.
func (a *App) Resubmit(ctx context.Context, id string, fields []string, generate bool) (*domain.Report, error) {
	patch, err := ParseFields(fields)
	if err != nil {
		return nil, err
	}
	report, err := a.Advisor.Resubmit(ctx, id, patch, generation(generate)...)
	if err != nil {
		return nil, err
	}
	return report, a.printReport(report)
}

// Show prints a stored report.
func (a *App) Show(ctx context.Context, id string) error {
	report, err := a.Advisor.Report(ctx, id)
	if err != nil {
		return err
	}
	return a.printReport(report)
}

// Runs lists the stored run IDs.
func (a *App) Runs(ctx context.Context) error {
	ids, err := a.Advisor.Runs(ctx)
	if err != nil {
		return err
	}
	if a.JSON {
		return writeJSON(a.Out, ids)
	}
	if len(ids) == 0 {
		printSystemMessage(a.Out, "No stored runs.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(a.Out, id)
	}
	return nil
}

// Calculate runs the financial engine for the property at path.
// Engine rejections are returned as errors after the payload is printed.
func (a *App) Calculate(path string) (finance.Result, error) {
	input, err := ReadProperty(path, a.In)
	if err != nil {
		return finance.Result{}, err
	}
	res, err := a.Advisor.CalculateProperty(input)
	if err != nil {
		return res, err
	}
	if res.OK() {
		err = a.print(tui.MetricsMarkdown(res.FinancialMetrics), res)
	} else {
		err = a.print(fmt.Sprintf("> **Error:** %s\n", res.Error), res)
	}
	if err != nil {
		return res, err
	}
	if !res.OK() {
		return res, errors.New(res.Error)
	}
	return res, nil
}

// ErrPolicyViolation is returned by Validate when a check rejects the text.
var ErrPolicyViolation = errors.New("text violates policy")

// Validate checks text against the policy. Explicit checks take precedence
// over task.
func (a *App) Validate(text, task string, checks []string) ([]guardrail.Outcome, error) {
	text, err := sanitize.Text(text, sanitize.MaxTextSize)
	if err != nil {
		return nil, err
	}

	var outcomes []guardrail.Outcome
	if len(checks) > 0 {
		outcomes, err = a.Advisor.ValidateChecks(text, checks)
	} else {
		outcomes, err = a.Advisor.Validate(text, task)
	}
	if err != nil {
		return nil, err
	}
	if err := a.print(tui.OutcomesMarkdown(outcomes), outcomes); err != nil {
		return outcomes, err
	}
	if v, failed := guardrail.FirstViolation(outcomes); failed {
		return outcomes, fmt.Errorf("%w: %s", ErrPolicyViolation, v.Check)
	}
	return outcomes, nil
}

// Graph prints the flow as Mermaid, highlighting run id when given.
func (a *App) Graph(ctx context.Context, id string) error {
	var flow *domain.RunResult
	if id != "" {
		report, err := a.Advisor.Report(ctx, id)
		if err != nil {
			return err
		}
		flow = report.Flow
	}
	_, err := fmt.Fprint(a.Out, a.Advisor.Graph(flow))
	return err
}

// Batch analyzes every listing under dir. It fails when the directory
// cannot be read; individual listings report their own outcome.
func (a *App) Batch(ctx context.Context, dir string, concurrency int, generate bool) ([]parcel.BatchResult, error) {
	loader, err := loam.Open(dir)
	if err != nil {
		return nil, err
	}
	return a.batch(ctx, loader, concurrency, generate)
}

func (a *App) batch(ctx context.Context, loader ports.ListingLoader, concurrency int, generate bool) ([]parcel.BatchResult, error) {
	runner := parcel.NewRunner(loader)
	if concurrency > 0 {
		runner.Concurrency = concurrency
	}
	if !a.JSON {
		runner.Output = a.Out
	}
	runner.Options = generation(generate)

	results, err := runner.Run(ctx, a.Advisor)
	if err != nil {
		return results, err
	}

	if a.JSON {
		return results, writeJSON(a.Out, batchJSON(results))
	}
	tally := parcel.Tally(results)
	printSystemMessage(a.Out, "%d listings: %d completed, %d pending, %d failed",
		len(results),
		tally[domain.StatusCompleted],
		tally[domain.StatusPendingHumanInput],
		tally[domain.StatusFailed],
	)
	return results, nil
}

type batchEntry struct {
	Listing string           `json:"listing"`
	RunID   string           `json:"run_id,omitempty"`
	Status  domain.RunStatus `json:"status,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func batchJSON(results []parcel.BatchResult) []batchEntry {
	out := make([]batchEntry, len(results))
	for i, r := range results {
		out[i].Listing = r.ListingID
		if r.Report != nil {
			out[i].RunID = r.Report.ID
			out[i].Status = r.Report.Status
			out[i].Error = r.Report.Error
		}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

// Serve runs the HTTP API on addr until ctx is cancelled.
func (a *App) Serve(ctx context.Context, addr string, validate bool) error {
	opts := []httpadapter.Option{
		httpadapter.WithGatherer(a.Registry),
		httpadapter.WithLogger(a.Logger),
	}
	if validate {
		opts = append(opts, httpadapter.WithRequestValidation())
	}
	handler, err := httpadapter.NewHandler(a.Advisor, opts...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", "address", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		a.Logger.Info("HTTP server stopped")
		return nil
	}
}

// MCP serves the advisor as MCP tools over transport "stdio" or "sse".
func (a *App) MCP(ctx context.Context, transport string, port int) error {
	srv := mcp.NewServer(a.Advisor, a.Logger)
	switch transport {
	case "stdio":
		return srv.ServeStdio()
	case "sse":
		return srv.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}
