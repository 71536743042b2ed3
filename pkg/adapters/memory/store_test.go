package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunResultStoreContract(t, NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	answers := map[string]any{"fever": true}
	require.NoError(t, store.Save(ctx, &domain.Result{ID: "r1", Label: "x", Answers: answers}))
	answers["fever"] = false

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, true, loaded.Answers["fever"])

	loaded.Answers["fever"] = "mutated"
	again, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, true, again.Answers["fever"])
}

func TestMemoryStore_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(WithTTL(time.Minute))
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Result{ID: "r1", Label: "x"}))
	_, err := store.Load(ctx, "r1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Load(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrResultNotFound)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
