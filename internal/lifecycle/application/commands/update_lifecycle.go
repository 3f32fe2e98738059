package commands

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// SetStatusesCommand replaces the statuses of a lifecycle.
type SetStatusesCommand struct {
	Name     string
	Initial  []string
	Active   []string
	Inactive []string
}

// SetTransitionsCommand replaces the transition graph of a lifecycle.
type SetTransitionsCommand struct {
	Name        string
	Transitions map[string][]string
}

// SetRightsCommand replaces the right table of a lifecycle.
type SetRightsCommand struct {
	Name   string
	Rights map[string]string
}

// SetActionsCommand replaces the actions of a lifecycle.
type SetActionsCommand struct {
	Name    string
	Actions domain.Actions
}

// SetDefaultsCommand updates the default statuses of a lifecycle.
type SetDefaultsCommand struct {
	Name       string
	Initial    string
	Inactive   string
	Situations map[string]string
}

// UpdateLifecycleHandler handles the commands that modify an existing
// lifecycle.
type UpdateLifecycleHandler struct {
	registry LifecycleWriter
}

// NewUpdateLifecycleHandler creates a new UpdateLifecycleHandler.
func NewUpdateLifecycleHandler(registry LifecycleWriter) *UpdateLifecycleHandler {
	return &UpdateLifecycleHandler{registry: registry}
}

// SetStatuses executes the SetStatusesCommand.
func (h *UpdateLifecycleHandler) SetStatuses(ctx context.Context, cmd SetStatusesCommand) (*application.LifecycleDTO, error) {
	return toDTO(h.registry.SetStatuses(ctx, cmd.Name, cmd.Initial, cmd.Active, cmd.Inactive))
}

// SetTransitions executes the SetTransitionsCommand.
func (h *UpdateLifecycleHandler) SetTransitions(ctx context.Context, cmd SetTransitionsCommand) (*application.LifecycleDTO, error) {
	return toDTO(h.registry.SetTransitions(ctx, cmd.Name, cmd.Transitions))
}

// SetRights executes the SetRightsCommand.
func (h *UpdateLifecycleHandler) SetRights(ctx context.Context, cmd SetRightsCommand) (*application.LifecycleDTO, error) {
	return toDTO(h.registry.SetRights(ctx, cmd.Name, cmd.Rights))
}

// SetActions executes the SetActionsCommand.
func (h *UpdateLifecycleHandler) SetActions(ctx context.Context, cmd SetActionsCommand) (*application.LifecycleDTO, error) {
	return toDTO(h.registry.SetActions(ctx, cmd.Name, cmd.Actions))
}

// SetDefaults executes the SetDefaultsCommand.
func (h *UpdateLifecycleHandler) SetDefaults(ctx context.Context, cmd SetDefaultsCommand) (*application.LifecycleDTO, error) {
	return toDTO(h.registry.SetDefaults(ctx, cmd.Name, application.Defaults{
		Initial:    cmd.Initial,
		Inactive:   cmd.Inactive,
		Situations: cmd.Situations,
	}))
}

func toDTO(l *domain.Lifecycle, err error) (*application.LifecycleDTO, error) {
	if err != nil {
		return nil, err
	}
	return application.NewLifecycleDTO(l), nil
}
