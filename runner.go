package parcel

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/parcel/pkg/advisory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

// BatchResult is the outcome of one listing in a batch.
type BatchResult struct {
	ListingID string
	Report    *domain.Report
	Err       error
}

// Runner analyzes every listing of a ListingLoader.
// Listings run concurrently; results keep the loader's order.
type Runner struct {
	Loader      ports.ListingLoader
	Concurrency int
	// Output receives one progress line per finished listing. Nil is silent.
	Output io.Writer
	// Options apply to every analysis of the batch.
	Options []advisory.AnalyzeOption
}

// NewRunner creates a batch runner over loader with a concurrency of 4.
func NewRunner(loader ports.ListingLoader) *Runner {
	return &Runner{Loader: loader, Concurrency: 4}
}

// Run executes the batch. A failing listing is recorded in its BatchResult
// and does not stop the others; the returned error covers loading and
// cancellation only.
func (r *Runner) Run(ctx context.Context, adv *Advisor) ([]BatchResult, error) {
	if r.Loader == nil {
		return nil, fmt.Errorf("listing loader must be set")
	}
	listings, err := r.Loader.Listings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	results := make([]BatchResult, len(listings))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, listing := range listings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := adv.service.Analyze(gctx, listing.Property, listing.Strategy, r.Options...)
			results[i] = BatchResult{ListingID: listing.ID, Report: report, Err: err}

			if r.Output != nil {
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintf(r.Output, "%-24s error: %v\n", listing.ID, err)
				} else {
					fmt.Fprintf(r.Output, "%-24s %-20s %s\n", listing.ID, report.Status, report.ID)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Tally counts the results by report status. Results with an error count
// under StatusFailed.
func Tally(results []BatchResult) map[domain.RunStatus]int {
	counts := make(map[domain.RunStatus]int)
	for _, res := range results {
		if res.Err != nil || res.Report == nil {
			counts[domain.StatusFailed]++
			continue
		}
		counts[res.Report.Status]++
	}
	return counts
}
