package eventbus

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/shared/domain"
)

// Publisher sends encoded events to the bus.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishEvent encodes event and publishes it under its routing key.
func PublishEvent(ctx context.Context, p Publisher, event domain.DomainEvent, origin string) error {
	payload, err := Encode(event, origin)
	if err != nil {
		return err
	}
	return p.Publish(ctx, event.RoutingKey(), payload)
}
