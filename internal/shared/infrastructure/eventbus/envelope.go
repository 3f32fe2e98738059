package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/lifecycles/internal/shared/domain"
)

// ErrMalformedEnvelope is returned for bodies that are not event envelopes.
var ErrMalformedEnvelope = errors.New("malformed event envelope")

// Encode wraps event in the envelope consumers decode. origin identifies the
// publishing process and travels as the causation id.
func Encode(event domain.DomainEvent, origin string) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.RoutingKey(), err)
	}

	metadata := EventMetadata{CausationID: origin}
	if id := event.CorrelationID(); id != uuid.Nil {
		metadata.CorrelationID = id.String()
	}

	return json.Marshal(ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Metadata:      metadata,
	})
}

// DecodeEvent parses an envelope. routingKey, the key the message was
// delivered under, fills in an envelope that does not name its own.
func DecodeEvent(body []byte, routingKey string) (*ConsumedEvent, error) {
	var event ConsumedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if event.EventID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing event_id", ErrMalformedEnvelope)
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return &event, nil
}
