package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultStoreContract runs a suite of tests to verify that a ResultStore
// implementation adheres to the interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	id := "contract-test-result-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		result := &domain.Result{
			ID:           id,
			ConclusionID: "acute",
			Label:        "Likely sinusitis",
			Severity:     "medium",
			Answers:      map[string]any{"fever": true, "days": 12.0, "side": "Left"},
			CreatedAt:    time.Now().UTC().Truncate(time.Second),
		}

		require.NoError(t, store.Save(ctx, result))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, result.Label, loaded.Label)
		assert.Equal(t, result.Severity, loaded.Severity)
		assert.Equal(t, true, loaded.Answers["fever"])
		assert.Equal(t, "Left", loaded.Answers["side"])
		assert.EqualValues(t, 12, loaded.Answers["days"])
		assert.True(t, result.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+id)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, id))
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, id)
	})
}
