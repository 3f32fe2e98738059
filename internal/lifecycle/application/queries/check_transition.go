package queries

import "context"

// CheckTransitionQuery asks whether a status change is allowed.
type CheckTransitionQuery struct {
	Lifecycle string
	From      string
	To        string
}

// TransitionCheckDTO describes a status change in one lifecycle.
type TransitionCheckDTO struct {
	Lifecycle string `json:"lifecycle"`
	From      string `json:"from"`
	To        string `json:"to"`
	FromType  string `json:"from_type,omitempty"`
	ToType    string `json:"to_type,omitempty"`
	Allowed   bool   `json:"allowed"`
	Right     string `json:"right"`
}

// CheckTransitionHandler handles the CheckTransitionQuery.
type CheckTransitionHandler struct {
	registry LifecycleReader
}

// NewCheckTransitionHandler creates a new CheckTransitionHandler.
func NewCheckTransitionHandler(registry LifecycleReader) *CheckTransitionHandler {
	return &CheckTransitionHandler{registry: registry}
}

// Handle executes the CheckTransitionQuery.
func (h *CheckTransitionHandler) Handle(ctx context.Context, query CheckTransitionQuery) (*TransitionCheckDTO, error) {
	l, err := load(ctx, h.registry, query.Lifecycle)
	if err != nil {
		return nil, err
	}
	return &TransitionCheckDTO{
		Lifecycle: l.Name(),
		From:      l.CanonicalCase(query.From),
		To:        l.CanonicalCase(query.To),
		FromType:  l.StatusType(query.From),
		ToType:    l.StatusType(query.To),
		Allowed:   l.IsTransition(query.From, query.To),
		Right:     l.CheckRight(query.From, query.To),
	}, nil
}
