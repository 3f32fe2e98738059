package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// LifecycleReader is the read side of the lifecycle registry.
type LifecycleReader interface {
	Load(ctx context.Context, name string) (*domain.Lifecycle, bool)
	List(ctx context.Context, types ...string) []string
	HasMap(ctx context.Context, from, to string) bool
	MapStatus(ctx context.Context, from, to, status string) (string, bool)
	UnmappedLifecyclePairs(ctx context.Context) []domain.MapPair
	RightsDescription(ctx context.Context) map[string]string
	ForLocalization(ctx context.Context) []string
	Config(ctx context.Context) (*domain.Config, error)
}

func load(ctx context.Context, reader LifecycleReader, name string) (*domain.Lifecycle, error) {
	l, ok := reader.Load(ctx, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotLoaded, name)
	}
	return l, nil
}
