package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/pkg/adapters/memory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunReportStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	report := &domain.Report{ID: "r1", Property: domain.PropertyInput{domain.FieldPropertyAddress: "1 Elm"}}
	require.NoError(t, store.Save(ctx, report))

	report.Property[domain.FieldPropertyAddress] = "mutated"
	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "1 Elm", loaded.Property.Address())

	loaded.Property[domain.FieldPropertyAddress] = "mutated again"
	again, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "1 Elm", again.Property.Address())
}
