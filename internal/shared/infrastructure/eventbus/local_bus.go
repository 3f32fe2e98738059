package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// LocalBus delivers events to consumers in the same process. It takes the
// broker's place when no RABBITMQ_URL is configured, so consumers receive
// the same envelopes either way.
type LocalBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewLocalBus creates a bus with no consumers.
func NewLocalBus(logger *slog.Logger) *LocalBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer adds a consumer.
func (b *LocalBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes the envelope and dispatches it before returning. Consumer
// failures are logged, not returned: the change behind the event is already
// committed.
func (b *LocalBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event, err := DecodeEvent(payload, routingKey)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.WarnContext(ctx, "local event delivery failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"error", err,
		)
	}
	return nil
}

// Close is a no-op.
func (b *LocalBus) Close() error {
	return nil
}
