package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about a committed change. Events are published only
// after the change is durable, so consumers may act on them immediately.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
	CorrelationID() uuid.UUID
}

// BaseEvent carries the identity of one event. Concrete events embed it and
// add their payload fields; the unexported fields stay out of the payload.
type BaseEvent struct {
	eventID       uuid.UUID
	aggregateID   uuid.UUID
	aggregateType string
	routingKey    string
	occurredAt    time.Time
	correlationID uuid.UUID
}

// NewBaseEvent stamps a new event for an aggregate.
func NewBaseEvent(aggregateType string, aggregateID uuid.UUID, routingKey string) BaseEvent {
	return BaseEvent{
		eventID:       uuid.New(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		routingKey:    routingKey,
		occurredAt:    time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID       { return e.eventID }
func (e BaseEvent) AggregateID() uuid.UUID   { return e.aggregateID }
func (e BaseEvent) AggregateType() string    { return e.aggregateType }
func (e BaseEvent) RoutingKey() string       { return e.routingKey }
func (e BaseEvent) OccurredAt() time.Time    { return e.occurredAt }
func (e BaseEvent) CorrelationID() uuid.UUID { return e.correlationID }

// Correlate ties the event to the request that caused it.
func (e *BaseEvent) Correlate(id uuid.UUID) {
	e.correlationID = id
}
