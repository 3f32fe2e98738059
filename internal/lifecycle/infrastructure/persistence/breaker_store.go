package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// BreakerConfig configures the circuit breaker around a store.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used when none are given.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "lifecycle-store",
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// BreakerStore stops calling a failing store until it has had time to
// recover. Calls rejected by an open breaker fail with
// domain.ErrStoreUnavailable; nothing is retried.
type BreakerStore struct {
	inner   domain.Store
	breaker *gobreaker.CircuitBreaker[*domain.Config]
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewBreakerStore wraps inner with a circuit breaker.
func NewBreakerStore(inner domain.Store, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerStore {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	s := &BreakerStore{inner: inner, logger: logger, metrics: metrics}
	s.breaker = gobreaker.NewCircuitBreaker[*domain.Config](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("lifecycle store circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			s.metrics.Gauge(observability.MetricStoreBreakerState, float64(to), observability.T("breaker", name))
		},
	})
	return s
}

// Load reads through the breaker.
func (s *BreakerStore) Load(ctx context.Context) (*domain.Config, error) {
	cfg, err := s.breaker.Execute(func() (*domain.Config, error) {
		return s.inner.Load(ctx)
	})
	return cfg, s.translate(err)
}

// Persist writes through the breaker.
func (s *BreakerStore) Persist(ctx context.Context, cfg *domain.Config) error {
	_, err := s.breaker.Execute(func() (*domain.Config, error) {
		return nil, s.inner.Persist(ctx, cfg)
	})
	return s.translate(err)
}

// Ping checks the inner store when it supports it. An open breaker reports
// the store as unavailable.
func (s *BreakerStore) Ping(ctx context.Context) error {
	if s.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: circuit breaker open", domain.ErrStoreUnavailable)
	}
	if p, ok := s.inner.(domain.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// State returns the breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerStore) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}
