package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

// Mask replaces masked values in stored reports.
const Mask = "***"

// analysisFields are read by the flow and the financial engine. Masking them
// would make a stored run impossible to resubmit, so they are never masked.
var analysisFields = map[string]bool{
	domain.FieldPropertyAddress:         true,
	domain.FieldPurchasePrice:           true,
	domain.FieldSquareFootage:           true,
	domain.FieldBedrooms:                true,
	domain.FieldBathrooms:               true,
	domain.FieldPropertyType:            true,
	domain.FieldYearBuilt:               true,
	domain.FieldEstimatedMonthlyRent:    true,
	domain.FieldAnnualOperatingExpenses: true,
	domain.FieldDownPaymentPercent:      true,
	domain.FieldInterestRate:            true,
	domain.FieldLoanTermYears:           true,
	domain.FieldAppreciationRate:        true,
	domain.FieldHoldPeriodYears:         true,
	domain.FieldClosingCostsPercent:     true,
	domain.FieldSellingCostsPercent:     true,
}

type piiMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks property values whose keys
// match any of the patterns, at any depth. Analysis fields are left intact.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, report *domain.Report) error {
	// The caller keeps using report, so mask a copy.
	cloned := report.Clone()
	cloned.Property = deepCopyMap(report.Property)

	for k, v := range cloned.Property {
		if analysisFields[k] {
			continue
		}
		if m.matches(k) {
			cloned.Property[k] = Mask
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			m.maskMap(sub)
		}
	}
	return m.next.Save(ctx, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) maskMap(values map[string]any) {
	for k, v := range values {
		if m.matches(k) {
			values[k] = Mask
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			m.maskMap(sub)
		}
	}
}

func deepCopyMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(sub)
		} else {
			out[k] = v
		}
	}
	return out
}
