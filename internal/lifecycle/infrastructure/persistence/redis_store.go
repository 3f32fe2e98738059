package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// DefaultRedisKey is the key holding the configuration document.
const DefaultRedisKey = "lifecycles:config"

// RedisStore keeps the whole configuration as one JSON document under a
// single key, so every write replaces it atomically.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Load reads the configuration. A missing key is an empty configuration.
func (s *RedisStore) Load(ctx context.Context) (*domain.Config, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	cfg := domain.NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return cfg, nil
}

// Persist writes the configuration without expiry.
func (s *RedisStore) Persist(ctx context.Context, cfg *domain.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode lifecycles: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
