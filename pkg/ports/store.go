package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// ResultStore persists concluded interview records.
type ResultStore interface {
	// Save stores the result under result.ID.
	Save(ctx context.Context, result *domain.Result) error

	// Load retrieves a result.
	// Returns domain.ErrResultNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Result, error)

	// Delete removes a result. Deleting a missing result is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of results that have not expired.
	List(ctx context.Context) ([]string, error)
}
