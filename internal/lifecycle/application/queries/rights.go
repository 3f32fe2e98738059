package queries

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// RightsHandler lists the rights derived from lifecycles.
type RightsHandler struct {
	registry LifecycleReader
}

// NewRightsHandler creates a new RightsHandler.
func NewRightsHandler(registry LifecycleReader) *RightsHandler {
	return &RightsHandler{registry: registry}
}

// Handle returns every lifecycle right sorted by name.
func (h *RightsHandler) Handle(ctx context.Context) []domain.Right {
	descriptions := h.registry.RightsDescription(ctx)
	out := make([]domain.Right, 0, len(descriptions))
	for name, description := range descriptions {
		out = append(out, domain.Right{Name: name, Description: description, Category: domain.RightCategory})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LocalizationHandler lists the strings that need translation.
type LocalizationHandler struct {
	registry LifecycleReader
}

// NewLocalizationHandler creates a new LocalizationHandler.
func NewLocalizationHandler(registry LifecycleReader) *LocalizationHandler {
	return &LocalizationHandler{registry: registry}
}

// Handle returns status names, action labels and right descriptions.
func (h *LocalizationHandler) Handle(ctx context.Context) []string {
	return h.registry.ForLocalization(ctx)
}
