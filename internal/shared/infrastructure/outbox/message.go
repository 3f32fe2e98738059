package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
)

// Message is an encoded event waiting to be redelivered to the broker.
type Message struct {
	ID            int64
	EventID       uuid.UUID
	CorrelationID string
	RoutingKey    string
	Payload       json.RawMessage
	CreatedAt     time.Time
	PublishedAt   *time.Time
	NextRetryAt   *time.Time
	RetryCount    int
	LastError     string

	DeadLetteredAt   *time.Time
	DeadLetterReason string
}

// NewMessage parks an encoded event. Payloads that are not event envelopes
// are kept as-is without an event ID.
func NewMessage(routingKey string, payload []byte) *Message {
	msg := &Message{
		RoutingKey: routingKey,
		Payload:    append(json.RawMessage(nil), payload...),
		CreatedAt:  time.Now(),
	}
	if event, err := eventbus.DecodeEvent(payload, routingKey); err == nil {
		msg.EventID = event.EventID
		msg.CorrelationID = event.Metadata.CorrelationID
	}
	return msg
}

// IsPublished returns true if the message has been delivered.
func (m *Message) IsPublished() bool {
	return m.PublishedAt != nil
}

// Due reports whether the message may be attempted at now.
func (m *Message) Due(now time.Time) bool {
	return m.NextRetryAt == nil || !m.NextRetryAt.After(now)
}

// Exhausted reports whether one more failed delivery reaches maxRetries.
func (m *Message) Exhausted(maxRetries int) bool {
	return m.RetryCount+1 >= maxRetries
}
