package queries

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// ValidateConfigHandler lints the stored configuration.
type ValidateConfigHandler struct {
	registry LifecycleReader
}

// NewValidateConfigHandler creates a new ValidateConfigHandler.
func NewValidateConfigHandler(registry LifecycleReader) *ValidateConfigHandler {
	return &ValidateConfigHandler{registry: registry}
}

// Handle returns every problem found in the stored configuration.
func (h *ValidateConfigHandler) Handle(ctx context.Context) ([]domain.Issue, error) {
	cfg, err := h.registry.Config(ctx)
	if err != nil {
		return nil, err
	}
	issues := domain.ValidateConfig(cfg)
	if issues == nil {
		issues = []domain.Issue{}
	}
	return issues, nil
}
