package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/pkg/adapters/file"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, file.DefaultPath, file.New("").BasePath)
}

func TestFileStore_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	report := &domain.Report{
		ID:       "run-1",
		Strategy: domain.StrategyFixAndFlip,
		Status:   domain.StatusCompleted,
	}
	require.NoError(t, store.Save(context.Background(), report))

	data, err := os.ReadFile(filepath.Join(dir, "run-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"strategy": "Fix \u0026 Flip"`)
	assert.Contains(t, string(data), `"status": "completed"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../escape", `a\b`, ".."} {
		assert.Error(t, store.Save(ctx, &domain.Report{ID: id}), id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_PreservesResults(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	results := domain.Results{}
	results.PutMetrics(&domain.FinancialMetrics{
		CashFlow: domain.CashFlowAnalysis{MonthlyCashFlow: -250.5},
	})
	results[domain.ResultRiskRating] = domain.RiskModerate

	report := &domain.Report{
		ID:   "run-2",
		Flow: &domain.RunResult{RunID: "run-2", FinalState: domain.StateCompleted, Results: results},
	}
	require.NoError(t, store.Save(ctx, report))

	loaded, err := store.Load(ctx, "run-2")
	require.NoError(t, err)
	require.NotNil(t, loaded.Flow)
	assert.Equal(t, domain.StateCompleted, loaded.Flow.FinalState)

	cf, ok := loaded.Flow.Results.CashFlow()
	require.True(t, ok)
	assert.Equal(t, -250.5, cf.MonthlyCashFlow)

	rating, ok := loaded.Flow.Results.RiskRating()
	require.True(t, ok)
	assert.Equal(t, domain.RiskModerate, rating)
}
