package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/pkg/domain"
)

func TestReadProperty(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		input, err := ReadProperty(writeProperty(t, "maple.yaml", sampleYAML), nil)
		require.NoError(t, err)
		assert.Equal(t, "456 Maple Street, Austin, TX 78701", input.Address())
		assert.Equal(t, 475000, input[domain.FieldPurchasePrice])
	})

	t.Run("json", func(t *testing.T) {
		input, err := ReadProperty(writeProperty(t, "maple.JSON", `{"property_address":"12 Elm St","purchase_price":300000}`), nil)
		require.NoError(t, err)
		assert.Equal(t, "12 Elm St", input.Address())
		assert.Equal(t, 300000.0, input[domain.FieldPurchasePrice])
	})

	t.Run("stdin", func(t *testing.T) {
		input, err := ReadProperty("-", strings.NewReader(`{"property_address": "7 Oak Ave\u0007"}`))
		require.NoError(t, err)
		assert.Equal(t, "7 Oak Ave", input.Address())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ReadProperty("-", bytes.NewReader(nil))
		assert.ErrorContains(t, err, "is empty")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ReadProperty(writeProperty(t, "bad.json", `{"purchase_price":`), nil)
		assert.ErrorContains(t, err, "decode property")
	})
}

func TestParseFields(t *testing.T) {
	patch, err := ParseFields([]string{
		"estimated_monthly_rent=3400",
		" property_type = Duplex ",
		"note=a=b",
	})
	require.NoError(t, err)
	assert.Equal(t, 3400.0, patch[domain.FieldEstimatedMonthlyRent])
	assert.Equal(t, "Duplex", patch[domain.FieldPropertyType])
	assert.Equal(t, "a=b", patch["note"])

	for _, bad := range []string{"rent", "=3400"} {
		_, err := ParseFields([]string{bad})
		assert.Error(t, err, bad)
	}

	patch, err = ParseFields(nil)
	require.NoError(t, err)
	assert.Empty(t, patch)
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	assert.True(t, NewLogger("warn", true).Enabled(ctx, slog.LevelDebug))
	assert.False(t, NewLogger("warn", false).Enabled(ctx, slog.LevelInfo))
	assert.True(t, NewLogger("bogus", false).Enabled(ctx, slog.LevelInfo))
}
