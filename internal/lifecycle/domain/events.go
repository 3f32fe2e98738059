package domain

import (
	sharedDomain "github.com/felixgeelhaar/lifecycles/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Lifecycle"

	RoutingKeyCreated            = "lifecycles.lifecycle.created"
	RoutingKeyStatusesChanged    = "lifecycles.lifecycle.statuses_changed"
	RoutingKeyTransitionsChanged = "lifecycles.lifecycle.transitions_changed"
	RoutingKeyRightsChanged      = "lifecycles.lifecycle.rights_changed"
	RoutingKeyActionsChanged     = "lifecycles.lifecycle.actions_changed"
	RoutingKeyDefaultsChanged    = "lifecycles.lifecycle.defaults_changed"
	RoutingKeyMapChanged         = "lifecycles.map.changed"
)

// RoutingPattern matches every lifecycle event.
const RoutingPattern = "lifecycles.#"

// RoutingKeys lists every event emitted after a committed change.
var RoutingKeys = []string{
	RoutingKeyCreated,
	RoutingKeyStatusesChanged,
	RoutingKeyTransitionsChanged,
	RoutingKeyRightsChanged,
	RoutingKeyActionsChanged,
	RoutingKeyDefaultsChanged,
	RoutingKeyMapChanged,
}

var lifecycleNamespace = uuid.MustParse("6f1c2b0e-6a53-4b55-9d7c-1f0a3e8f2c41")

// AggregateID returns the stable id of a lifecycle name.
func AggregateID(name string) uuid.UUID {
	return uuid.NewSHA1(lifecycleNamespace, []byte(name))
}

// LifecycleChanged is emitted when a lifecycle is created or modified.
type LifecycleChanged struct {
	sharedDomain.BaseEvent
	Name string `json:"name"`
}

// NewLifecycleChanged creates a change event for a lifecycle.
func NewLifecycleChanged(name, routingKey string) LifecycleChanged {
	return LifecycleChanged{
		BaseEvent: sharedDomain.NewBaseEvent(AggregateType, AggregateID(name), routingKey),
		Name:      name,
	}
}

// MapChanged is emitted when a lifecycle map is stored.
type MapChanged struct {
	sharedDomain.BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

// NewMapChanged creates a map change event.
func NewMapChanged(from, to string) MapChanged {
	return MapChanged{
		BaseEvent: sharedDomain.NewBaseEvent(AggregateType, AggregateID(TransitionKey(from, to)), RoutingKeyMapChanged),
		From:      from,
		To:        to,
	}
}
