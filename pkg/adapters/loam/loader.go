// Package loam loads batch listings from a directory of Markdown, YAML or
// JSON documents through the loam document store.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

// Loader adapts a loam repository to ports.ListingLoader.
type Loader struct {
	Repo *loam.TypedRepository[ListingMetadata]

	// DefaultStrategy applies to listings without a strategy.
	DefaultStrategy domain.Strategy
}

// New creates a Loader over an existing typed repository.
func New(repo *loam.TypedRepository[ListingMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode keeps numbers as json.Number across Markdown, YAML and JSON.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ListingMetadata](repo)), nil
}

// Get loads a single listing by ID.
func (l *Loader) Get(ctx context.Context, id string) (ports.Listing, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return ports.Listing{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return l.toListing(doc.ID, doc.Data)
}

// Listings implements ports.ListingLoader. Listings are sorted by ID and
// skipped documents are left out.
func (l *Loader) Listings(ctx context.Context) ([]ports.Listing, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	listings := make([]ports.Listing, 0, len(docs))
	for _, doc := range docs {
		listing, err := l.toListing(doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[listing.ID]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", listing.ID, existing, doc.ID)
		}
		seen[listing.ID] = doc.ID
		if doc.Data.Skip {
			continue
		}
		listings = append(listings, listing)
	}

	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

func (l *Loader) toListing(docID string, meta ListingMetadata) (ports.Listing, error) {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}
	id := trimExtension(rawID)

	strategy := l.DefaultStrategy
	if meta.Strategy != "" {
		parsed, err := domain.ParseStrategy(meta.Strategy)
		if err != nil {
			return ports.Listing{}, fmt.Errorf("listing %s: %w", id, err)
		}
		strategy = parsed
	}
	if len(meta.Property) == 0 {
		return ports.Listing{}, fmt.Errorf("listing %s: property is required", id)
	}

	return ports.Listing{
		ID:       id,
		Strategy: strategy,
		Property: domain.PropertyInput(meta.Property).Clone(),
	}, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
