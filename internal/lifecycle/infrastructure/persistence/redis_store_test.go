package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client, "")
}

func TestRedisStore_MissingKeyIsEmpty(t *testing.T) {
	_, store := newRedisStore(t)

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())
}

func TestRedisStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	mr, store := newRedisStore(t)

	require.NoError(t, store.Persist(ctx, sampleConfig()))
	assert.True(t, mr.Exists(DefaultRedisKey))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"support", "approvals"}, got.Names())
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	mr, store := newRedisStore(t)
	require.NoError(t, mr.Set(DefaultRedisKey, "not json"))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, store := newRedisStore(t)
	mr.Close()

	_, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, store.Persist(context.Background(), sampleConfig()))
}
