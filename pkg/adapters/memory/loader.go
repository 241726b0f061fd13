package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/parcel/pkg/ports"
)

// Loader implements ports.ListingLoader over a fixed set of listings.
type Loader struct {
	listings []ports.Listing
}

// NewLoader creates a Loader serving the given listings in order.
func NewLoader(listings ...ports.Listing) (*Loader, error) {
	seen := make(map[string]bool, len(listings))
	for _, l := range listings {
		if l.ID == "" {
			return nil, fmt.Errorf("listing missing ID")
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("duplicate listing ID: %s", l.ID)
		}
		seen[l.ID] = true
	}
	return &Loader{listings: listings}, nil
}

// Listings returns copies of the listings.
func (l *Loader) Listings(ctx context.Context) ([]ports.Listing, error) {
	out := make([]ports.Listing, len(l.listings))
	for i, listing := range l.listings {
		listing.Property = listing.Property.Clone()
		out[i] = listing
	}
	return out, nil
}
