package domain

import (
	"encoding/json"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Keys of the analysis-results mapping.
const (
	ResultCoreMetrics    = "core_metrics"
	ResultCashFlow       = "cash_flow_analysis"
	ResultInvestment     = "investment_summary"
	ResultProjection     = "projection"
	ResultSensitivity    = "sensitivity_analysis"
	ResultRiskRating     = "risk_rating"
	ResultAlignmentScore = "alignment_score"
	ResultPreliminary    = "preliminary_financials"
	ResultMissingFields  = "missing_fields"
)

// RiskRating is the coarse risk band assigned to a property.
type RiskRating string

const (
	RiskLow      RiskRating = "LOW"
	RiskModerate RiskRating = "MODERATE"
	RiskHigh     RiskRating = "HIGH"
	RiskCritical RiskRating = "CRITICAL"
)

// Severe reports whether the rating is HIGH or CRITICAL.
func (r RiskRating) Severe() bool {
	return r == RiskHigh || r == RiskCritical
}

// Results is the named analysis-results mapping of a run.
// Values are typed structs while a run is live and generic maps once a
// report has been decoded from storage; the accessors accept both.
type Results map[string]any

// Clone returns a shallow copy.
func (r Results) Clone() Results {
	if r == nil {
		return Results{}
	}
	return maps.Clone(r)
}

// PutMetrics stores every section of m under its result key.
func (r Results) PutMetrics(m *FinancialMetrics) {
	r[ResultCoreMetrics] = m.Core
	r[ResultCashFlow] = m.CashFlow
	r[ResultInvestment] = m.Investment
	r[ResultProjection] = m.Projection
	r[ResultSensitivity] = m.Sensitivity
}

// CashFlow returns the cash-flow section if present.
func (r Results) CashFlow() (CashFlowAnalysis, bool) {
	var out CashFlowAnalysis
	switch v := r[ResultCashFlow].(type) {
	case CashFlowAnalysis:
		return v, true
	case *CashFlowAnalysis:
		if v == nil {
			return out, false
		}
		return *v, true
	case map[string]any:
		return out, decodeSection(v, &out)
	}
	return out, false
}

// CoreMetrics returns the core-metrics section if present.
func (r Results) CoreMetrics() (CoreMetrics, bool) {
	var out CoreMetrics
	switch v := r[ResultCoreMetrics].(type) {
	case CoreMetrics:
		return v, true
	case *CoreMetrics:
		if v == nil {
			return out, false
		}
		return *v, true
	case map[string]any:
		return out, decodeSection(v, &out)
	}
	return out, false
}

// RiskRating returns the stored risk rating if present.
func (r Results) RiskRating() (RiskRating, bool) {
	switch v := r[ResultRiskRating].(type) {
	case RiskRating:
		return v, true
	case string:
		return RiskRating(v), true
	}
	return "", false
}

// MissingFields returns the required fields recorded as missing at initialization.
func (r Results) MissingFields() []string {
	switch v := r[ResultMissingFields].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, f := range v {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// AlignmentScore returns the stored strategy alignment score if present.
func (r Results) AlignmentScore() (float64, bool) {
	return toFloat(r[ResultAlignmentScore])
}

func decodeSection(in map[string]any, out any) bool {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return false
	}
	return decoder.Decode(in) == nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
