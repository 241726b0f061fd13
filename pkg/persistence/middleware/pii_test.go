package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/parcel/internal/testutils"
	"github.com/aretw0/parcel/pkg/adapters/memory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	// Mask owner details and anything phone-like, plus one analysis field
	// that must survive anyway.
	mw, err := middleware.NewPIIMiddleware([]string{"^owner_", "phone", "purchase_price"})
	if err != nil {
		t.Fatalf("NewPIIMiddleware failed: %v", err)
	}
	store := mw(underlying)

	ctx := context.Background()
	property := testutils.SampleProperty()
	property["owner_name"] = "Jane Doe"
	property["listing_agent"] = map[string]any{
		"name":       "Sam Realtor",
		"work_phone": "555-0100",
	}
	report := &domain.Report{ID: "pii-run", Status: domain.StatusCompleted, Property: property}

	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if report.Property["owner_name"] != "Jane Doe" {
		t.Error("Middleware modified the caller's report")
	}
	if agent := report.Property["listing_agent"].(map[string]any); agent["work_phone"] != "555-0100" {
		t.Error("Middleware modified the caller's nested property map")
	}

	stored, err := underlying.Load(ctx, "pii-run")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if stored.Property["owner_name"] != middleware.Mask {
		t.Errorf("Owner name should be masked, got: %v", stored.Property["owner_name"])
	}
	agent := stored.Property["listing_agent"].(map[string]any)
	if agent["work_phone"] != middleware.Mask {
		t.Errorf("Nested phone should be masked, got: %v", agent["work_phone"])
	}
	if agent["name"] != "Sam Realtor" {
		t.Errorf("Agent name shouldn't be masked, got: %v", agent["name"])
	}
	if stored.Property[domain.FieldPurchasePrice] != 475000.0 {
		t.Errorf("Analysis fields must not be masked, got: %v", stored.Property[domain.FieldPurchasePrice])
	}
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	if _, err := middleware.NewPIIMiddleware([]string{"("}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestChain(t *testing.T) {
	underlying := memory.NewStore()
	pii, err := middleware.NewPIIMiddleware([]string{"^owner_"})
	if err != nil {
		t.Fatal(err)
	}
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if err != nil {
		t.Fatal(err)
	}
	store := middleware.Chain(underlying, pii, enc)

	ctx := context.Background()
	property := testutils.SampleProperty()
	property["owner_email"] = "jane@example.com"
	if err := store.Save(ctx, &domain.Report{ID: "chained", Property: property}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := underlying.Load(ctx, "chained")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := raw.Property[middleware.EnvelopeField]; !ok {
		t.Fatal("Expected the inner store to hold an envelope")
	}

	loaded, err := store.Load(ctx, "chained")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Property["owner_email"] != middleware.Mask {
		t.Errorf("Expected masked email after decryption, got: %v", loaded.Property["owner_email"])
	}
}
