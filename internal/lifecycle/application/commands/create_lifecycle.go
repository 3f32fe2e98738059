package commands

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// CreateLifecycleCommand contains the data needed to create a lifecycle.
type CreateLifecycleCommand struct {
	Name       string
	Definition domain.Definition
}

// CreateLifecycleHandler handles the CreateLifecycleCommand.
type CreateLifecycleHandler struct {
	registry LifecycleWriter
}

// NewCreateLifecycleHandler creates a new CreateLifecycleHandler.
func NewCreateLifecycleHandler(registry LifecycleWriter) *CreateLifecycleHandler {
	return &CreateLifecycleHandler{registry: registry}
}

// Handle executes the CreateLifecycleCommand.
func (h *CreateLifecycleHandler) Handle(ctx context.Context, cmd CreateLifecycleCommand) (*application.LifecycleDTO, error) {
	l, err := h.registry.CreateLifecycle(ctx, cmd.Name, cmd.Definition)
	if err != nil {
		return nil, err
	}
	return application.NewLifecycleDTO(l), nil
}
