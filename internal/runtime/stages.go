package runtime

import (
	"errors"
	"fmt"

	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/schema"
)

var dataSources = []string{"MLS", "market_data", "neighborhood_stats"}

var riskCategories = []string{"demographic", "market", "economic", "property"}

func handleInitialization(c *FlowContext) (domain.State, error) {
	c.Emit(domain.EventValidationStart, map[string]any{"property": c.Input().Address()})

	if missing := c.Input().Missing(domain.RequiredFields); len(missing) > 0 {
		c.Emit(domain.EventValidationFailed, map[string]any{"missing_fields": missing})
		c.SetResult(domain.ResultMissingFields, missing)
		c.Dispatch(domain.SignalInsufficientData)
		return domain.StateRequiresHumanInput, nil
	}

	if err := schema.ValidateProperty(c.Input()); err != nil {
		return 0, fmt.Errorf("invalid property input: %w", err)
	}

	c.Emit(domain.EventValidationPassed, map[string]any{"validated_fields": domain.RequiredFields})
	return domain.StateDataCollection, nil
}

func handleDataCollection(c *FlowContext) (domain.State, error) {
	c.Emit(domain.EventDataCollectionStart, map[string]any{"sources": dataSources})
	c.Emit(domain.EventDataCollectionComplete, map[string]any{"status": "success"})
	return domain.StateFinancialAnalysis, nil
}

func handleFinancialAnalysis(c *FlowContext) (domain.State, error) {
	c.Emit(domain.EventFinancialAnalysisStart, map[string]any{"metrics": []string{"cap_rate", "coc", "irr"}})

	if c.Metrics() == nil {
		details, err := c.Input().Details()
		if err != nil {
			return 0, err
		}
		res := finance.Run(finance.FromProperty(details))
		if !res.OK() {
			return 0, errors.New(res.Error)
		}
		c.SetMetrics(res.FinancialMetrics)
	}

	m := c.Metrics()
	c.Emit(domain.EventFinancialAnalysisDone, map[string]any{
		"cap_rate":            m.Core.CapRate,
		"cash_on_cash_return": m.Core.CashOnCashReturn,
		"monthly_cash_flow":   m.CashFlow.MonthlyCashFlow,
	})
	return domain.StateRiskAnalysis, nil
}

func handleRiskAnalysis(c *FlowContext) (domain.State, error) {
	c.Emit(domain.EventRiskAnalysisStart, map[string]any{"categories": riskCategories})

	m := c.Metrics()
	if m == nil {
		return 0, errors.New("risk analysis requires financial metrics")
	}
	c.SetResult(domain.ResultRiskRating, finance.AssessRisk(m.Core, m.CashFlow))
	return domain.StateStrategyEvaluation, nil
}

func handleStrategyEvaluation(c *FlowContext) (domain.State, error) {
	c.Emit(domain.EventStrategyEvaluation, map[string]any{"strategy": c.Strategy().String()})

	m := c.Metrics()
	if m == nil {
		return 0, errors.New("strategy evaluation requires financial metrics")
	}
	c.SetResult(domain.ResultAlignmentScore, finance.AlignmentScore(c.Strategy(), m.Core, m.CashFlow))
	return domain.StateFinalRecommendation, nil
}

func handleFinalRecommendation(c *FlowContext) (domain.State, error) {
	c.Emit(domain.EventRecommendationStart, map[string]any{"approach": "chain_of_thought"})
	return domain.StateCompleted, nil
}
