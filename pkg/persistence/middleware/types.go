// Package middleware wraps a ResultStore to protect the answers kept in
// result records.
package middleware

import "github.com/aretw0/intake/pkg/ports"

// Middleware allows wrapping a ResultStore to add behavior.
type Middleware func(ports.ResultStore) ports.ResultStore

// Chain applies mws to store so that the first middleware sees a record first.
func Chain(store ports.ResultStore, mws ...Middleware) ports.ResultStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
