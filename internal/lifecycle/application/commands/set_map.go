package commands

import "context"

// SetMapCommand stores the status translation between two lifecycles.
type SetMapCommand struct {
	From    string
	To      string
	Mapping map[string]string
}

// SetMapHandler handles the SetMapCommand.
type SetMapHandler struct {
	registry LifecycleWriter
}

// NewSetMapHandler creates a new SetMapHandler.
func NewSetMapHandler(registry LifecycleWriter) *SetMapHandler {
	return &SetMapHandler{registry: registry}
}

// Handle executes the SetMapCommand.
func (h *SetMapHandler) Handle(ctx context.Context, cmd SetMapCommand) error {
	return h.registry.SetMap(ctx, cmd.From, cmd.To, cmd.Mapping)
}
