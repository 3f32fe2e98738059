package queries

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// MapStatusQuery translates a status between two lifecycles.
type MapStatusQuery struct {
	From   string
	To     string
	Status string
}

// MapStatusDTO is the result of a status translation.
type MapStatusDTO struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
	Target string `json:"target,omitempty"`
	Mapped bool   `json:"mapped"`
	HasMap bool   `json:"has_map"`
}

// MapsHandler answers questions about lifecycle maps.
type MapsHandler struct {
	registry LifecycleReader
}

// NewMapsHandler creates a new MapsHandler.
func NewMapsHandler(registry LifecycleReader) *MapsHandler {
	return &MapsHandler{registry: registry}
}

// MapStatus executes the MapStatusQuery.
func (h *MapsHandler) MapStatus(ctx context.Context, query MapStatusQuery) (*MapStatusDTO, error) {
	for _, name := range []string{query.From, query.To} {
		if _, err := load(ctx, h.registry, name); err != nil {
			return nil, err
		}
	}
	target, ok := h.registry.MapStatus(ctx, query.From, query.To, query.Status)
	return &MapStatusDTO{
		From:   query.From,
		To:     query.To,
		Status: query.Status,
		Target: target,
		Mapped: ok,
		HasMap: h.registry.HasMap(ctx, query.From, query.To),
	}, nil
}

// Unmapped lists ordered lifecycle pairs without a usable map.
func (h *MapsHandler) Unmapped(ctx context.Context) []domain.MapPair {
	pairs := h.registry.UnmappedLifecyclePairs(ctx)
	if pairs == nil {
		return []domain.MapPair{}
	}
	return pairs
}
