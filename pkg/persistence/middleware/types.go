// Package middleware provides ReportStore decorators that change how reports
// are persisted without touching the advisory service.
package middleware

import "github.com/aretw0/parcel/pkg/ports"

// Middleware allows wrapping a ReportStore to add behavior.
type Middleware func(ports.ReportStore) ports.ReportStore

// Chain applies mws to store so that the first middleware is the outermost.
func Chain(store ports.ReportStore, mws ...Middleware) ports.ReportStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
