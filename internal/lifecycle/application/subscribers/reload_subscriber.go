package subscribers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// Reloader rebuilds the lifecycle registry from its store.
type Reloader interface {
	Reload(ctx context.Context) error
	RegisterRights(ctx context.Context, catalog domain.PermissionCatalog) (int, error)
}

// ReloadSubscriber keeps a registry in sync with changes committed by other
// processes sharing the same store.
type ReloadSubscriber struct {
	registry   Reloader
	catalog    domain.PermissionCatalog
	instanceID string
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewReloadSubscriber creates a reload subscriber. Events carrying
// instanceID as their causation id were published by this process and are
// ignored.
func NewReloadSubscriber(registry Reloader, instanceID string, logger *slog.Logger) *ReloadSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadSubscriber{
		registry:   registry,
		instanceID: instanceID,
		logger:     logger,
		metrics:    observability.NoopMetrics{},
	}
}

// WithCatalog registers rights added by a reload into the catalog.
func (s *ReloadSubscriber) WithCatalog(catalog domain.PermissionCatalog) *ReloadSubscriber {
	s.catalog = catalog
	return s
}

// WithMetrics sets the metrics collector.
func (s *ReloadSubscriber) WithMetrics(metrics observability.Metrics) *ReloadSubscriber {
	s.metrics = metrics
	return s
}

// EventTypes binds every lifecycle event.
func (s *ReloadSubscriber) EventTypes() []string {
	return []string{domain.RoutingPattern}
}

// Handle reloads the registry after a remote change.
func (s *ReloadSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if s.instanceID != "" && event.Metadata.CausationID == s.instanceID {
		s.logger.Debug("skipping own lifecycle event", "routing_key", event.RoutingKey)
		return nil
	}
	s.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))

	if err := s.registry.Reload(ctx); err != nil {
		s.logger.Error("failed to reload lifecycles",
			"routing_key", event.RoutingKey,
			"error", err,
		)
		return err
	}

	if s.catalog != nil {
		if _, err := s.registry.RegisterRights(ctx, s.catalog); err != nil {
			s.logger.Warn("failed to register lifecycle rights", "error", err)
		}
	}

	s.logger.Info("lifecycles reloaded after remote change",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
	)
	return nil
}
