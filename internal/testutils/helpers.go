// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/pkg/domain"
)

// SetupTestRepo creates a temporary directory and initializes a loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteFiles writes name → content pairs under dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// SampleProperty returns a complete, valid property input: a $475,000
// single-family home renting for $3,400 a month at 7.25% interest.
func SampleProperty() domain.PropertyInput {
	return domain.PropertyInput{
		domain.FieldPropertyAddress:         "456 Maple Street, Austin, TX 78701",
		domain.FieldPurchasePrice:           475000.0,
		domain.FieldSquareFootage:           1950.0,
		domain.FieldBedrooms:                3.0,
		domain.FieldBathrooms:               2.0,
		domain.FieldPropertyType:            "Single Family Home",
		domain.FieldYearBuilt:               2015.0,
		domain.FieldEstimatedMonthlyRent:    3400.0,
		domain.FieldAnnualOperatingExpenses: 14000.0,
		domain.FieldDownPaymentPercent:      25.0,
		domain.FieldInterestRate:            7.25,
		domain.FieldLoanTermYears:           30.0,
	}
}
