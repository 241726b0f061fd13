package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/pkg/domain"
)

func contractReport(id string) *domain.Report {
	return &domain.Report{
		ID:        id,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Strategy:  domain.StrategyPassiveIncome,
		Status:    domain.StatusPendingHumanInput,
		Property: domain.PropertyInput{
			domain.FieldPropertyAddress: "12 Contract Way",
			domain.FieldPurchasePrice:   250000.0,
		},
		RequiredData: []string{domain.FieldEstimatedMonthlyRent},
	}
}

// RunReportStoreContract runs a suite of tests to verify that a ReportStore
// implementation adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	id := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		report := contractReport(id)
		require.NoError(t, store.Save(ctx, report), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, domain.StrategyPassiveIncome, loaded.Strategy)
		assert.Equal(t, domain.StatusPendingHumanInput, loaded.Status)
		assert.True(t, loaded.CreatedAt.Equal(report.CreatedAt))
		assert.Equal(t, "12 Contract Way", loaded.Property.Address())
		// Stores may round-trip numbers through JSON, so only presence is checked.
		assert.True(t, loaded.Property.Has(domain.FieldPurchasePrice))
		assert.Equal(t, []string{domain.FieldEstimatedMonthlyRent}, loaded.RequiredData)
	})

	t.Run("Save replaces", func(t *testing.T) {
		report := contractReport(id)
		report.Status = domain.StatusCompleted
		report.RequiredData = nil
		require.NoError(t, store.Save(ctx, report))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, loaded.Status)
		assert.Empty(t, loaded.RequiredData)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractReport(id)))
		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, contractReport(id1)))
		require.NoError(t, store.Save(ctx, contractReport(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
