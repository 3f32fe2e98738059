package queries

import "context"

// ListLifecyclesQuery filters lifecycles by type. No types lists all.
type ListLifecyclesQuery struct {
	Types []string
}

// LifecycleSummaryDTO is a short view of a lifecycle for listings.
type LifecycleSummaryDTO struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Statuses int    `json:"statuses"`
	Initial  string `json:"default_initial,omitempty"`
	Inactive string `json:"default_inactive,omitempty"`
}

// ListLifecyclesHandler handles the ListLifecyclesQuery.
type ListLifecyclesHandler struct {
	registry LifecycleReader
}

// NewListLifecyclesHandler creates a new ListLifecyclesHandler.
func NewListLifecyclesHandler(registry LifecycleReader) *ListLifecyclesHandler {
	return &ListLifecyclesHandler{registry: registry}
}

// Handle executes the ListLifecyclesQuery. Lifecycles are returned in
// configuration order.
func (h *ListLifecyclesHandler) Handle(ctx context.Context, query ListLifecyclesQuery) ([]LifecycleSummaryDTO, error) {
	names := h.registry.List(ctx, query.Types...)
	out := make([]LifecycleSummaryDTO, 0, len(names))
	for _, name := range names {
		l, ok := h.registry.Load(ctx, name)
		if !ok {
			continue
		}
		out = append(out, LifecycleSummaryDTO{
			Name:     l.Name(),
			Type:     l.Type(),
			Statuses: len(l.Valid()),
			Initial:  l.DefaultInitial(),
			Inactive: l.DefaultInactive(),
		})
	}
	return out, nil
}
