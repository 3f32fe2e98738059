package queries

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// GetActionsQuery asks for the actions offered from a status. An empty From
// returns every configured action.
type GetActionsQuery struct {
	Lifecycle string
	From      string
}

// GetActionsHandler handles the GetActionsQuery.
type GetActionsHandler struct {
	registry LifecycleReader
}

// NewGetActionsHandler creates a new GetActionsHandler.
func NewGetActionsHandler(registry LifecycleReader) *GetActionsHandler {
	return &GetActionsHandler{registry: registry}
}

// Handle executes the GetActionsQuery.
func (h *GetActionsHandler) Handle(ctx context.Context, query GetActionsQuery) (domain.Actions, error) {
	l, err := load(ctx, h.registry, query.Lifecycle)
	if err != nil {
		return nil, err
	}
	if query.From == "" {
		return l.AllActions(), nil
	}
	return l.Actions(query.From), nil
}
