package decision

import (
	"fmt"
	"slices"

	"github.com/aretw0/parcel/pkg/domain"
)

// Action tags recorded for each signal.
const (
	ActionFlagForReview          = "flag_for_review"
	ActionDeepDive               = "deep_dive_analysis"
	ActionSuggestAlternative     = "suggest_alternative"
	ActionRequestAdditionalData  = "request_additional_data"
	ActionExpediteRecommendation = "expedite_recommendation"
)

var templates = map[domain.Signal]domain.DecisionAction{
	domain.SignalNegativeCashFlow: {
		Action:  ActionFlagForReview,
		Message: "Property shows negative cash flow. Additional analysis recommended.",
		NextSteps: []string{
			"Verify rent estimates",
			"Review expense projections",
			"Consider different financing options",
			"Evaluate if strategy should be Aggressive Growth instead",
		},
	},
	domain.SignalHighRisk: {
		Action:  ActionDeepDive,
		Message: "High risk factors detected. Recommend detailed due diligence.",
		NextSteps: []string{
			"Conduct property inspection",
			"Research neighborhood trends in detail",
			"Analyze comparable sales closely",
			"Consider risk mitigation strategies",
		},
	},
	domain.SignalStrategyMismatch: {
		Action:  ActionSuggestAlternative,
		Message: "Property does not align well with selected strategy.",
		NextSteps: []string{
			"Review alternative investment strategies",
			"Consider different property types",
			"Re-evaluate investment goals",
		},
	},
	domain.SignalInsufficientData: {
		Action:  ActionRequestAdditionalData,
		Message: "Insufficient data to complete analysis.",
	},
	domain.SignalExceptionalOpportunity: {
		Action:  ActionExpediteRecommendation,
		Message: "Exceptional investment opportunity detected!",
		NextSteps: []string{
			"Fast-track due diligence",
			"Prepare offer immediately",
			"Secure financing pre-approval",
			"Schedule property inspection ASAP",
		},
	},
}

// Respond returns the static response for sig. For insufficient data the
// response lists every data requirement the input does not satisfy.
func Respond(sig domain.Signal, input domain.PropertyInput) domain.DecisionAction {
	tmpl, ok := templates[sig]
	if !ok {
		panic(fmt.Sprintf("decision: no response template for %s", sig))
	}
	out := domain.DecisionAction{
		Action:    tmpl.Action,
		Message:   tmpl.Message,
		NextSteps: slices.Clone(tmpl.NextSteps),
	}
	if sig == domain.SignalInsufficientData {
		out.RequiredData = input.Missing(domain.DataRequirements)
	}
	return out
}
