package application

import "github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"

// LifecycleDTO is the transport view of a lifecycle.
type LifecycleDTO struct {
	Name            string              `json:"name"`
	Type            string              `json:"type"`
	Initial         []string            `json:"initial"`
	Active          []string            `json:"active"`
	Inactive        []string            `json:"inactive"`
	DefaultInitial  string              `json:"default_initial,omitempty"`
	DefaultInactive string              `json:"default_inactive,omitempty"`
	Defaults        map[string]string   `json:"defaults,omitempty"`
	CreateStatuses  []string            `json:"create_statuses"`
	Transitions     map[string][]string `json:"transitions,omitempty"`
	Rights          map[string]string   `json:"rights,omitempty"`
	Actions         domain.Actions      `json:"actions,omitempty"`
}

// NewLifecycleDTO converts a lifecycle.
func NewLifecycleDTO(l *domain.Lifecycle) *LifecycleDTO {
	if l == nil {
		return nil
	}
	return &LifecycleDTO{
		Name:            l.Name(),
		Type:            l.Type(),
		Initial:         l.Initial(),
		Active:          l.Active(),
		Inactive:        l.Inactive(),
		DefaultInitial:  l.DefaultInitial(),
		DefaultInactive: l.DefaultInactive(),
		Defaults:        l.Defaults(),
		CreateStatuses:  l.CreateStatuses(),
		Transitions:     l.AllTransitions(),
		Rights:          l.Rights(),
		Actions:         l.AllActions(),
	}
}
