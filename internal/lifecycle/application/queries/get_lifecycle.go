package queries

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
)

// GetLifecycleQuery contains the parameters for getting a lifecycle. An
// empty name selects the global lifecycle.
type GetLifecycleQuery struct {
	Name string
}

// GetLifecycleHandler handles the GetLifecycleQuery.
type GetLifecycleHandler struct {
	registry LifecycleReader
}

// NewGetLifecycleHandler creates a new GetLifecycleHandler.
func NewGetLifecycleHandler(registry LifecycleReader) *GetLifecycleHandler {
	return &GetLifecycleHandler{registry: registry}
}

// Handle executes the GetLifecycleQuery.
func (h *GetLifecycleHandler) Handle(ctx context.Context, query GetLifecycleQuery) (*application.LifecycleDTO, error) {
	l, err := load(ctx, h.registry, query.Name)
	if err != nil {
		return nil, err
	}
	return application.NewLifecycleDTO(l), nil
}
