package ports

import (
	"context"

	"github.com/aretw0/parcel/pkg/domain"
)

// Listing is one property queued for batch analysis.
type Listing struct {
	ID       string
	Strategy domain.Strategy
	Property domain.PropertyInput
}

// ListingLoader enumerates listings for batch analysis.
type ListingLoader interface {
	Listings(ctx context.Context) ([]Listing, error)
}
