package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database/sqlite"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "lifecycles.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	store, err := NewSQLStore(ctx, conn)
	require.NoError(t, err)
	return store
}

func TestSQLStore_EmptyDatabase(t *testing.T) {
	store := newSQLiteStore(t)

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSQLStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.Persist(ctx, sampleConfig()))
	got, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"support", "approvals"}, got.Names())
	def, ok := got.Get("approvals")
	require.True(t, ok)
	assert.Equal(t, "approval", def.Type)
	mapping, ok := got.Map("support", "approvals")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"new": "pending"}, mapping)
}

func TestSQLStore_PersistReplacesEverything(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	require.NoError(t, store.Persist(ctx, sampleConfig()))

	next := domain.NewConfig()
	next.Put("approvals", domain.Definition{Initial: []string{"pending"}})
	next.Put("support", domain.Definition{Initial: []string{"new"}})
	require.NoError(t, store.Persist(ctx, next))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"approvals", "support"}, got.Names())
	assert.Empty(t, got.MapKeys())
}

func TestSQLStore_PersistMapKeys(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	cfg := sampleConfig()
	cfg.SetMapByKey("approvals->support", map[string]string{"pending": "new"})
	cfg.SetMapByKey("approvals  ->  support", map[string]string{"Pending": "open"})
	require.NoError(t, store.Persist(ctx, cfg))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	mapping, ok := got.Map("approvals", "support")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"pending": "open"}, mapping)

	cfg.SetMapByKey("nonsense", map[string]string{})
	err = store.Persist(ctx, cfg)
	require.ErrorIs(t, err, domain.ErrMalformedTransitionKey)

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.MapKeys(), 2)
}
