package outbox

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
)

// Publisher delivers events through the wrapped publisher and parks the ones
// it cannot deliver in the outbox. A parked event counts as published; the
// Processor redelivers it later.
type Publisher struct {
	next   eventbus.Publisher
	repo   Repository
	logger *slog.Logger
}

// NewPublisher wraps next with an outbox backed by repo.
func NewPublisher(next eventbus.Publisher, repo Repository, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{next: next, repo: repo, logger: logger}
}

// Publish sends payload to the broker, falling back to the outbox.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	err := p.next.Publish(ctx, routingKey, payload)
	if err == nil {
		return nil
	}

	msg := NewMessage(routingKey, payload)
	if saveErr := p.repo.Save(ctx, msg); saveErr != nil {
		return errors.Join(err, saveErr)
	}

	p.logger.Warn("event parked in outbox",
		"routing_key", routingKey,
		"event_id", msg.EventID,
		"error", err,
	)
	return nil
}

// Next returns the wrapped publisher.
func (p *Publisher) Next() eventbus.Publisher {
	return p.next
}

// Close closes the wrapped publisher.
func (p *Publisher) Close() error {
	return p.next.Close()
}
