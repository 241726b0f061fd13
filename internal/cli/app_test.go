package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel"
	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/internal/testutils"
	"github.com/aretw0/parcel/pkg/adapters/memory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

const sampleYAML = `property_address: 456 Maple Street, Austin, TX 78701
purchase_price: 475000
square_footage: 1950
bedrooms: 3
bathrooms: 2
property_type: Single Family Home
year_built: 2015
estimated_monthly_rent: 3400
annual_operating_expenses: 14000
down_payment_percent: 25
interest_rate: 7.25
loan_term_years: 30
`

func newApp(t *testing.T, jsonMode bool) (*App, *bytes.Buffer) {
	t.Helper()
	w, err := NewWiring(baseConfig(), logging.NewNop())
	require.NoError(t, err)
	n := 0
	w.Advisor = parcel.New(parcel.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}))
	var out bytes.Buffer
	return &App{Wiring: w, Out: &out, JSON: jsonMode}, &out
}

func writeProperty(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{name: content})
	return filepath.Join(dir, name)
}

func TestApp_AnalyzeMarkdown(t *testing.T) {
	app, out := newApp(t, false)
	path := writeProperty(t, "maple.yaml", sampleYAML)

	report, err := app.Analyze(context.Background(), path, "Passive Income", true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, report.Status)

	text := out.String()
	assert.Contains(t, text, "# 456 Maple Street, Austin, TX 78701")
	assert.Contains(t, text, "## Recommendation")
}

func TestApp_AnalyzeJSONFromStdin(t *testing.T) {
	app, out := newApp(t, true)
	data, err := json.Marshal(testutils.SampleProperty())
	require.NoError(t, err)
	app.In = bytes.NewReader(data)

	_, err = app.Analyze(context.Background(), "-", "Aggressive Growth", false)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["id"])
	assert.Equal(t, "Aggressive Growth", decoded["strategy"])
	assert.Nil(t, decoded["recommendation"])
}

func TestApp_AnalyzeErrors(t *testing.T) {
	app, _ := newApp(t, false)
	path := writeProperty(t, "maple.yaml", sampleYAML)

	_, err := app.Analyze(context.Background(), path, "Moonshot", true)
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)

	_, err = app.Analyze(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), "Passive Income", true)
	assert.Error(t, err)
}

func TestApp_ResubmitShowRuns(t *testing.T) {
	app, out := newApp(t, false)
	ctx := context.Background()

	partial := strings.Replace(sampleYAML, "estimated_monthly_rent: 3400\n", "", 1)
	paused, err := app.Analyze(ctx, writeProperty(t, "partial.yaml", partial), "Passive Income", false)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPendingHumanInput, paused.Status)
	assert.Contains(t, out.String(), "`estimated_monthly_rent`")

	out.Reset()
	resumed, err := app.Resubmit(ctx, paused.ID, []string{"estimated_monthly_rent=3400"}, false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, resumed.Status)
	assert.Equal(t, paused.ID, resumed.ParentID)
	assert.Contains(t, out.String(), "Resubmission of")

	_, err = app.Resubmit(ctx, resumed.ID, nil, false)
	assert.ErrorIs(t, err, domain.ErrNotResubmittable)

	_, err = app.Resubmit(ctx, paused.ID, []string{"broken"}, false)
	assert.Error(t, err)

	out.Reset()
	require.NoError(t, app.Show(ctx, resumed.ID))
	assert.Contains(t, out.String(), resumed.ID)
	assert.ErrorIs(t, app.Show(ctx, "missing"), domain.ErrRunNotFound)

	out.Reset()
	require.NoError(t, app.Runs(ctx))
	lines := strings.Fields(out.String())
	assert.ElementsMatch(t, []string{"run-1", "run-2"}, lines)
}

func TestApp_RunsEmpty(t *testing.T) {
	app, out := newApp(t, false)
	require.NoError(t, app.Runs(context.Background()))
	assert.Contains(t, out.String(), "No stored runs.")
}

func TestApp_Calculate(t *testing.T) {
	app, out := newApp(t, false)

	res, err := app.Calculate(writeProperty(t, "maple.json", mustJSON(t, testutils.SampleProperty())))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 26800.0, res.CashFlow.NetOperatingIncome)
	assert.Contains(t, out.String(), "| Metric | Value |")

	bad := strings.Replace(sampleYAML, "down_payment_percent: 25", "down_payment_percent: 140", 1)
	out.Reset()
	_, err = app.Calculate(writeProperty(t, "bad.yaml", bad))
	assert.ErrorContains(t, err, "Down payment percent must be between 0 and 100")
	assert.Contains(t, out.String(), "**Error:**")
}

func TestApp_Validate(t *testing.T) {
	app, out := newApp(t, false)

	_, err := app.Validate("Returns are guaranteed to make you rich.", "", []string{"no_guaranteed_returns"})
	assert.ErrorIs(t, err, ErrPolicyViolation)
	assert.Contains(t, out.String(), "no_guaranteed_returns")

	outcomes, err := app.Validate("Vacancy in the area sits near five percent.", "data_analysis", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, outcomes)

	_, err = app.Validate("x", "", []string{"unknown"})
	assert.Error(t, err)
}

func TestApp_Graph(t *testing.T) {
	app, out := newApp(t, false)
	ctx := context.Background()

	require.NoError(t, app.Graph(ctx, ""))
	assert.True(t, strings.HasPrefix(out.String(), "graph TD"))

	report, err := app.Analyze(ctx, writeProperty(t, "maple.yaml", sampleYAML), "Fix & Flip", false)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, app.Graph(ctx, report.ID))
	assert.Contains(t, out.String(), "class completed current;")

	assert.ErrorIs(t, app.Graph(ctx, "missing"), domain.ErrRunNotFound)
}

func TestApp_BatchMemoryLoader(t *testing.T) {
	app, out := newApp(t, true)

	partial := testutils.SampleProperty()
	delete(partial, domain.FieldInterestRate)
	loader, err := memory.NewLoader(
		ports.Listing{ID: "maple", Strategy: domain.StrategyPassiveIncome, Property: testutils.SampleProperty()},
		ports.Listing{ID: "partial", Strategy: domain.StrategyFixAndFlip, Property: partial},
	)
	require.NoError(t, err)

	results, err := app.batch(context.Background(), loader, 2, false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var entries []batchEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "maple", entries[0].Listing)
	assert.Equal(t, domain.StatusCompleted, entries[0].Status)
	assert.Equal(t, domain.StatusPendingHumanInput, entries[1].Status)
}

func TestApp_BatchDirectory(t *testing.T) {
	app, out := newApp(t, false)
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"maple.md": "---\nstrategy: Passive Income\nproperty:\n" + indent(sampleYAML) + "---\nQuiet street.\n",
	})

	results, err := app.Batch(context.Background(), dir, 0, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusCompleted, results[0].Report.Status)
	assert.Contains(t, out.String(), "1 listings: 1 completed, 0 pending, 0 failed")
}

func TestApp_MCPUnknownTransport(t *testing.T) {
	app, _ := newApp(t, false)
	assert.ErrorContains(t, app.MCP(context.Background(), "carrier-pigeon", 0), "unknown transport")
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	app, _ := newApp(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.Serve(ctx, "127.0.0.1:0", true))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func indent(block string) string {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
