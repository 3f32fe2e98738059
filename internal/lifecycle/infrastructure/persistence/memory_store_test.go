package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	cfg, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())

	cfg.Put("support", domain.Definition{Initial: []string{"new"}})
	loaded, _ := store.Load(ctx)
	assert.Equal(t, 0, loaded.Len(), "loaded configs must be copies")

	require.NoError(t, store.Persist(ctx, cfg))
	loaded, _ = store.Load(ctx)
	assert.Equal(t, []string{"support"}, loaded.Names())

	boom := errors.New("boom")
	store.FailPersist(boom)
	assert.ErrorIs(t, store.Persist(ctx, domain.NewConfig()), boom)
	loaded, _ = store.Load(ctx)
	assert.Equal(t, 1, loaded.Len())
}
