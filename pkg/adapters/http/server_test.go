package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel"
	"github.com/aretw0/parcel/internal/testutils"
	"github.com/aretw0/parcel/pkg/domain"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *prometheus.Registry) {
	t.Helper()
	n := 0
	reg := prometheus.NewRegistry()
	adv := parcel.New(
		parcel.WithMetrics(reg),
		parcel.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("run-%d", n)
		}),
	)
	h, err := NewHandler(adv, append([]Option{WithGatherer(reg)}, opts...)...)
	require.NoError(t, err)
	return h, reg
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/analyze"))
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])

	w = do(t, h, http.MethodGet, "/info", nil)
	info := decodeBody(t, w)
	assert.Equal(t, "parcel-http", info["app"])
	assert.Equal(t, parcel.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Parcel Advisory API")
}

func TestAnalyzeLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/analyze", map[string]any{
		"property": testutils.SampleProperty(),
		"strategy": "passive income",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decodeBody(t, w)
	assert.Equal(t, "run-1", report["id"])
	assert.Equal(t, string(domain.StatusCompleted), report["status"])
	assert.NotEmpty(t, report["recommendation"])

	w = do(t, h, http.MethodGet, "/runs", nil)
	assert.Equal(t, []any{"run-1"}, decodeBody(t, w)["runs"])

	w = do(t, h, http.MethodGet, "/runs/run-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "run-1", decodeBody(t, w)["id"])

	w = do(t, h, http.MethodGet, "/runs/run-1/graph", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "class completed current;")

	w = do(t, h, http.MethodGet, "/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "run not found")
}

func TestAnalyzeWithoutGeneration(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/analyze", map[string]any{
		"property": testutils.SampleProperty(),
		"strategy": "Aggressive Growth",
		"generate": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	report := decodeBody(t, w)
	assert.Nil(t, report["recommendation"])
	assert.NotNil(t, report["preliminary_financials"])
}

func TestAnalyzeRejections(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/analyze", map[string]any{
		"property": testutils.SampleProperty(),
		"strategy": "Day Trading",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "unknown strategy")

	w = do(t, h, http.MethodPost, "/analyze", map[string]any{"strategy": "Fix & Flip"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestResubmit(t *testing.T) {
	h, _ := newTestHandler(t)

	partial := testutils.SampleProperty()
	delete(partial, domain.FieldEstimatedMonthlyRent)
	w := do(t, h, http.MethodPost, "/analyze", map[string]any{"property": partial, "strategy": "Passive Income"})
	require.Equal(t, http.StatusOK, w.Code)
	paused := decodeBody(t, w)
	assert.Equal(t, string(domain.StatusPendingHumanInput), paused["status"])
	assert.Equal(t, []any{domain.FieldEstimatedMonthlyRent}, paused["required_data"])

	w = do(t, h, http.MethodPost, "/runs/run-1/resubmit", map[string]any{
		"property": map[string]any{domain.FieldEstimatedMonthlyRent: 3400},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resumed := decodeBody(t, w)
	assert.Equal(t, "run-2", resumed["id"])
	assert.Equal(t, "run-1", resumed["parent_id"])
	assert.Equal(t, string(domain.StatusCompleted), resumed["status"])

	w = do(t, h, http.MethodPost, "/runs/run-2/resubmit", map[string]any{"property": map[string]any{}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, "/runs/nope/resubmit", map[string]any{"property": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalculate(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/calculate", map[string]any{
		"purchase_price":            300000,
		"annual_rent":               30000,
		"annual_operating_expenses": 8400,
		"down_payment_percent":      25,
		"interest_rate":             7,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody(t, w)
	assert.Equal(t, "success", res["status"])
	core := res["core_metrics"].(map[string]any)
	assert.Equal(t, 7.2, core["cap_rate"])
	projection := res["projection"].(map[string]any)
	assert.Equal(t, 5.0, projection["hold_period_years"])

	w = do(t, h, http.MethodPost, "/calculate", map[string]any{
		"purchase_price":            0,
		"annual_rent":               30000,
		"annual_operating_expenses": 8400,
		"down_payment_percent":      25,
		"interest_rate":             7,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	res = decodeBody(t, w)
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "Purchase price must be positive", res["error"])
}

func TestCalculate_OptionalAssumptions(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/calculate", map[string]any{
		"purchase_price":            300000,
		"annual_rent":               30000,
		"annual_operating_expenses": 8400,
		"down_payment_percent":      100,
		"interest_rate":             7,
		"loan_term_years":           0,
		"hold_period_years":         10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody(t, w)
	investment := res["investment_summary"].(map[string]any)
	assert.Equal(t, 0.0, investment["monthly_mortgage_payment"])
	projection := res["projection"].(map[string]any)
	assert.Equal(t, 10.0, projection["hold_period_years"])
}

func TestCalculateInputs_Defaults(t *testing.T) {
	term := 15
	in := calculateInputs(CalculateRequest{PurchasePrice: 1, LoanTermYears: &term})
	assert.Equal(t, 15, in.LoanTermYears)
	assert.Equal(t, domain.DefaultHoldPeriodYears, in.HoldPeriodYears)
	assert.Equal(t, domain.DefaultClosingCostsPercent, in.ClosingCostsPercent)
}

func TestValidate(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/validate", map[string]any{
		"text":   "This property offers guaranteed returns.",
		"checks": []string{"no_guaranteed_returns"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeBody(t, w)
	assert.Equal(t, false, out["passed"])
	outcomes := out["outcomes"].([]any)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "no_guaranteed_returns", outcomes[0].(map[string]any)["check"])

	w = do(t, h, http.MethodPost, "/validate", map[string]any{
		"text": "Cash flow looks thin.",
		"task": "data_analysis",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["passed"])

	w = do(t, h, http.MethodPost, "/validate", map[string]any{"text": "x", "checks": []string{"vibes"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/validate", map[string]any{"text": "x", "task": "poetry"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitizedInput(t *testing.T) {
	h, _ := newTestHandler(t)

	property := testutils.SampleProperty()
	property[domain.FieldPropertyAddress] = "456 Maple Street\u001b[2J"
	w := do(t, h, http.MethodPost, "/analyze", map[string]any{
		"property": property,
		"strategy": "Passive Income",
		"generate": false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := decodeBody(t, w)["property"].(map[string]any)
	assert.Equal(t, "456 Maple Street[2J", stored[domain.FieldPropertyAddress])

	w = do(t, h, http.MethodPost, "/validate", map[string]any{
		"text": strings.Repeat("a", 64*1024+1),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGraphAndMetrics(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/graph", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))
	assert.NotContains(t, w.Body.String(), "classDef")

	do(t, h, http.MethodPost, "/analyze", map[string]any{"property": testutils.SampleProperty(), "strategy": "Fix & Flip"})

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "parcel_runs_total")
}

func TestRunPathParam(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/runs/run%201", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["error"])

	w = do(t, h, http.MethodGet, "/runs/run-9/graph", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, http.MethodOptions, "/analyze", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestValidation(t *testing.T) {
	h, _ := newTestHandler(t, WithRequestValidation())

	w := do(t, h, http.MethodPost, "/calculate", map[string]any{"purchase_price": "lots"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["error"])

	w = do(t, h, http.MethodPost, "/validate", map[string]any{"task": "data_analysis"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/validate", map[string]any{"text": "Numbers only.", "task": "data_analysis"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Undocumented paths skip validation.
	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
