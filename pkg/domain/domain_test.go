package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_TextRoundTrip(t *testing.T) {
	for _, s := range States {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got State
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	_, err := State(42).MarshalText()
	assert.Error(t, err)

	var s State
	assert.Error(t, s.UnmarshalText([]byte("nowhere")))
}

func TestState_IsTerminal(t *testing.T) {
	terminal := map[State]bool{
		StateCompleted:          true,
		StateFailed:             true,
		StateRequiresHumanInput: true,
	}
	for _, s := range States {
		if got := s.IsTerminal(); got != terminal[s] {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, terminal[s])
		}
	}
}

func TestSignal_ResultKey(t *testing.T) {
	assert.Equal(t, "decision_negative_cash_flow", SignalNegativeCashFlow.ResultKey())
	assert.Equal(t, "decision_high_risk_detected", SignalHighRisk.ResultKey())

	sig, err := ParseSignal("exceptional_opportunity")
	require.NoError(t, err)
	assert.Equal(t, SignalExceptionalOpportunity, sig)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"Passive Income", StrategyPassiveIncome, false},
		{"  aggressive growth ", StrategyAggressiveGrowth, false},
		{"Fix & Flip", StrategyFixAndFlip, false},
		{"Buy & Pray", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			assert.True(t, errors.Is(err, ErrUnknownStrategy))
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestStrategy_Profile(t *testing.T) {
	p := StrategyPassiveIncome.Profile()
	assert.Equal(t, 8.0, p.MinCashOnCash)
	assert.Equal(t, "low", p.RiskTolerance)
	assert.Equal(t, "high", StrategyAggressiveGrowth.Profile().RiskTolerance)
	assert.Equal(t, 1, StrategyFixAndFlip.Profile().MaxHoldYears)
}

func TestPropertyInput_Missing(t *testing.T) {
	p := PropertyInput{
		FieldPropertyAddress: "1 Main St",
		FieldPurchasePrice:   300000,
		FieldInterestRate:    nil,
		FieldPropertyType:    "  ",
	}
	missing := p.Missing(RequiredFields)
	assert.Equal(t, []string{
		FieldEstimatedMonthlyRent,
		FieldAnnualOperatingExpenses,
		FieldDownPaymentPercent,
		FieldInterestRate,
	}, missing)
	assert.False(t, p.Has(FieldPropertyType))
}

func TestPropertyInput_CloneIsIndependent(t *testing.T) {
	p := PropertyInput{FieldPurchasePrice: 1.0}
	c := p.Clone()
	c[FieldPurchasePrice] = 2.0
	assert.Equal(t, 1.0, p[FieldPurchasePrice])

	merged := p.Merge(PropertyInput{FieldInterestRate: 6.5})
	assert.Len(t, p, 1)
	assert.Equal(t, 6.5, merged[FieldInterestRate])
}

func TestPropertyInput_Details(t *testing.T) {
	p := PropertyInput{
		FieldPropertyAddress:         "456 Maple Street",
		FieldPurchasePrice:           475000,
		FieldEstimatedMonthlyRent:    "3400",
		FieldAnnualOperatingExpenses: 14000.0,
		FieldDownPaymentPercent:      25,
		FieldInterestRate:            7.25,
		FieldYearBuilt:               2015.0,
		FieldHoldPeriodYears:         nil,
	}
	d, err := p.Details()
	require.NoError(t, err)

	assert.Equal(t, "456 Maple Street", d.Address)
	assert.Equal(t, 475000.0, d.PurchasePrice)
	assert.Equal(t, 3400.0, d.EstimatedMonthlyRent)
	assert.Equal(t, 2015, d.YearBuilt)
	assert.Equal(t, DefaultLoanTermYears, d.LoanTermYears)
	assert.Equal(t, DefaultHoldPeriodYears, d.HoldPeriodYears)
	assert.Equal(t, DefaultSellingCostsPercent, d.SellingCostsPercent)

	_, err = PropertyInput{FieldPurchasePrice: "lots"}.Details()
	assert.Error(t, err)
}

func TestResults_AcceptsTypedAndDecodedSections(t *testing.T) {
	live := Results{}
	live.PutMetrics(&FinancialMetrics{
		Core:     CoreMetrics{CapRate: 7.2, CashOnCashReturn: 4.1},
		CashFlow: CashFlowAnalysis{MonthlyCashFlow: -120.5},
	})
	live[ResultRiskRating] = RiskModerate
	live[ResultAlignmentScore] = 6.0

	raw, err := json.Marshal(live)
	require.NoError(t, err)
	var decoded Results
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for name, r := range map[string]Results{"live": live, "decoded": decoded} {
		cf, ok := r.CashFlow()
		require.True(t, ok, name)
		assert.Equal(t, -120.5, cf.MonthlyCashFlow, name)

		core, ok := r.CoreMetrics()
		require.True(t, ok, name)
		assert.Equal(t, 7.2, core.CapRate, name)

		rating, ok := r.RiskRating()
		require.True(t, ok, name)
		assert.Equal(t, RiskModerate, rating, name)

		score, ok := r.AlignmentScore()
		require.True(t, ok, name)
		assert.Equal(t, 6.0, score, name)
	}

	_, ok := Results{}.CashFlow()
	assert.False(t, ok)
}

func TestRunResult_Summary(t *testing.T) {
	r := &RunResult{
		Property:   "1 Main St",
		Strategy:   StrategyFixAndFlip,
		FinalState: StateCompleted,
		Events: []FlowEvent{
			{Type: EventFlowInitialized, State: StateInitialized},
			{Type: EventStateTransition, State: StateDataCollection},
		},
		Signals: []Signal{SignalStrategyMismatch},
	}
	out := r.Summary()
	assert.Contains(t, out, "Property: 1 Main St")
	assert.Contains(t, out, "Strategy: Fix & Flip")
	assert.Contains(t, out, "Final State: completed")
	assert.Contains(t, out, "2. [")
	assert.Contains(t, out, "STATE_TRANSITION (data_collection)")
	assert.Contains(t, out, "  - strategy_mismatch")
	assert.True(t, r.HasSignal(SignalStrategyMismatch))
	assert.False(t, r.HasSignal(SignalHighRisk))
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnTransition: func(_ context.Context, tr Transition) { calls = append(calls, "a:"+tr.To.String()) }}
	b := LifecycleHooks{OnTransition: func(_ context.Context, tr Transition) { calls = append(calls, "b:"+tr.To.String()) }}

	merged := a.Merge(b)
	merged.OnTransition(context.Background(), Transition{To: StateFailed})
	assert.Equal(t, []string{"a:failed", "b:failed"}, calls)
	assert.Nil(t, merged.OnSignal)
}
