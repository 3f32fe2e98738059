package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/internal/shared/domain"
)

type renamed struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	before := time.Now().UTC()

	event := domain.NewBaseEvent("Lifecycle", aggregateID, "lifecycles.lifecycle.created")

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "Lifecycle", event.AggregateType())
	assert.Equal(t, "lifecycles.lifecycle.created", event.RoutingKey())
	assert.False(t, event.OccurredAt().Before(before))
	assert.Equal(t, uuid.Nil, event.CorrelationID())

	other := domain.NewBaseEvent("Lifecycle", aggregateID, "lifecycles.lifecycle.created")
	assert.NotEqual(t, event.EventID(), other.EventID(), "every event gets its own id")
}

func TestBaseEvent_Correlate(t *testing.T) {
	event := renamed{BaseEvent: domain.NewBaseEvent("Lifecycle", uuid.New(), "lifecycles.lifecycle.created"), Name: "support"}
	id := uuid.New()
	event.Correlate(id)

	var ev domain.DomainEvent = event
	assert.Equal(t, id, ev.CorrelationID())
}

func TestBaseEvent_StaysOutOfPayload(t *testing.T) {
	event := renamed{BaseEvent: domain.NewBaseEvent("Lifecycle", uuid.New(), "lifecycles.lifecycle.created"), Name: "support"}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"support"}`, string(data))
}
