package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

type flakyStore struct {
	err   error
	calls int
}

func (s *flakyStore) Load(context.Context) (*domain.Config, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return domain.NewConfig(), nil
}

func (s *flakyStore) Persist(context.Context, *domain.Config) error {
	s.calls++
	return s.err
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyStore{err: errors.New("connection refused")}
	metrics := observability.NewInMemoryMetrics()
	store := NewBreakerStore(inner, BreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		Timeout:          time.Hour,
	}, nil, metrics)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Load(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, store.State())
	assert.Equal(t, float64(gobreaker.StateOpen), metrics.GetGauge(observability.MetricStoreBreakerState, observability.T("breaker", "test")))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Persist(ctx, domain.NewConfig()), domain.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Ping(ctx), domain.ErrStoreUnavailable)
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerStore_PassesThroughWhenHealthy(t *testing.T) {
	inner := NewMemoryStore(sampleConfig())
	store := NewBreakerStore(inner, DefaultBreakerConfig(), nil, nil)
	ctx := context.Background()

	cfg, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Len())
	require.NoError(t, store.Persist(ctx, domain.NewConfig()))
	assert.NoError(t, store.Ping(ctx))
	assert.Equal(t, gobreaker.StateClosed, store.State())
}
