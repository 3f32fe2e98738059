package commands

import (
	"context"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// LifecycleWriter is the mutating side of the lifecycle registry.
type LifecycleWriter interface {
	CreateLifecycle(ctx context.Context, name string, def domain.Definition) (*domain.Lifecycle, error)
	SetStatuses(ctx context.Context, name string, initial, active, inactive []string) (*domain.Lifecycle, error)
	SetTransitions(ctx context.Context, name string, transitions map[string][]string) (*domain.Lifecycle, error)
	SetRights(ctx context.Context, name string, rights map[string]string) (*domain.Lifecycle, error)
	SetActions(ctx context.Context, name string, actions domain.Actions) (*domain.Lifecycle, error)
	SetDefaults(ctx context.Context, name string, defaults application.Defaults) (*domain.Lifecycle, error)
	SetMap(ctx context.Context, from, to string, mapping map[string]string) error
}
