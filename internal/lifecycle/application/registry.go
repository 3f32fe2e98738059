package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	sharedApplication "github.com/felixgeelhaar/lifecycles/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/lifecycles/internal/shared/domain"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// Registry owns the lifecycle configuration and the immutable snapshot
// derived from it. Readers always see a complete snapshot; writers are
// serialized around the stage, persist and rebuild sequence. A change is
// only installed after the store accepted it.
type Registry struct {
	store      domain.Store
	publisher  eventbus.Publisher
	logger     *slog.Logger
	metrics    observability.Metrics
	catalog    domain.PermissionCatalog
	instanceID string

	mu      sync.Mutex
	source  *domain.Config
	fillErr error
	current atomic.Pointer[domain.Snapshot]
	fill    singleflight.Group
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPublisher publishes change events after each committed mutation.
func WithPublisher(p eventbus.Publisher) RegistryOption {
	return func(r *Registry) { r.publisher = p }
}

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m observability.Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithCatalog registers new rights in catalog after each committed mutation.
func WithCatalog(c domain.PermissionCatalog) RegistryOption {
	return func(r *Registry) { r.catalog = c }
}

// WithInstanceID tags published events so this process can ignore its own.
func WithInstanceID(id string) RegistryOption {
	return func(r *Registry) { r.instanceID = id }
}

// NewRegistry creates a registry backed by a store. Nothing is read until
// the first query.
func NewRegistry(store domain.Store, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:   store,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InstanceID returns the id attached to events published by this registry.
func (r *Registry) InstanceID() string {
	return r.instanceID
}

// Snapshot returns the current snapshot, filling it from the store on first
// use. A store that cannot be read yields an empty registry.
func (r *Registry) Snapshot(ctx context.Context) *domain.Snapshot {
	if snap := r.current.Load(); snap != nil {
		return snap
	}
	v, _, _ := r.fill.Do("fill", func() (any, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if snap := r.current.Load(); snap != nil {
			return snap, nil
		}
		return r.fillLocked(context.WithoutCancel(ctx)), nil
	})
	return v.(*domain.Snapshot)
}

func (r *Registry) fillLocked(ctx context.Context) *domain.Snapshot {
	r.metrics.Counter(observability.MetricStoreLoads, 1)
	cfg, err := r.store.Load(ctx)
	r.fillErr = err
	if err != nil {
		r.logger.WarnContext(ctx, "failed to load lifecycles, registry is empty", "error", err)
		snap := domain.Rebuild(nil)
		r.current.Store(snap)
		return snap
	}
	r.source = cfg
	r.logger.DebugContext(ctx, "lifecycle registry filled", "lifecycles", cfg.Len())
	return r.rebuildLocked()
}

func (r *Registry) rebuildLocked() *domain.Snapshot {
	start := time.Now()
	snap := domain.Rebuild(r.source)
	r.current.Store(snap)

	r.metrics.Counter(observability.MetricRegistryRebuilds, 1)
	r.metrics.Timing(observability.MetricRegistryRebuildSeconds, time.Since(start))
	r.metrics.Gauge(observability.MetricRegistryLifecycles, float64(snap.Len()))
	return snap
}

// Reload rereads the store and rebuilds the snapshot. On failure the current
// snapshot stays in place.
func (r *Registry) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics.Counter(observability.MetricStoreLoads, 1)
	cfg, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload lifecycles: %w", err)
	}
	r.source = cfg
	r.fillErr = nil
	snap := r.rebuildLocked()
	r.logger.InfoContext(ctx, "lifecycle registry reloaded", "lifecycles", snap.Len())
	return nil
}

// Invalidate drops the snapshot; the next query refills it from the store.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = nil
	r.current.Store(nil)
}

// Health reports the number of configured lifecycles and the last fill error.
func (r *Registry) Health(ctx context.Context) (int, error) {
	snap := r.Snapshot(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	return snap.Len(), r.fillErr
}

// Config returns a copy of the source of truth.
func (r *Registry) Config(ctx context.Context) (*domain.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, err := r.sourceLocked(ctx)
	if err != nil {
		return nil, err
	}
	return src.Clone(), nil
}

// Load returns a lifecycle by name; "" returns the global lifecycle.
func (r *Registry) Load(ctx context.Context, name string) (*domain.Lifecycle, bool) {
	return r.Snapshot(ctx).Lifecycle(name)
}

// List returns lifecycle names in configuration order, optionally filtered
// by type.
func (r *Registry) List(ctx context.Context, types ...string) []string {
	return r.Snapshot(ctx).Names(types...)
}

// HasMap reports whether a usable status map exists between two lifecycles.
func (r *Registry) HasMap(ctx context.Context, from, to string) bool {
	return r.Snapshot(ctx).HasMap(from, to)
}

// MapStatus translates a status from one lifecycle to another.
func (r *Registry) MapStatus(ctx context.Context, from, to, status string) (string, bool) {
	return r.Snapshot(ctx).MapStatus(from, to, status)
}

// UnmappedLifecyclePairs lists lifecycle pairs lacking a usable map.
func (r *Registry) UnmappedLifecyclePairs(ctx context.Context) []domain.MapPair {
	return r.Snapshot(ctx).UnmappedLifecyclePairs()
}

// RightsDescription describes every right named by a lifecycle.
func (r *Registry) RightsDescription(ctx context.Context) map[string]string {
	return r.Snapshot(ctx).RightsDescription()
}

// ForLocalization returns every user-facing string for translation.
func (r *Registry) ForLocalization(ctx context.Context) []string {
	return r.Snapshot(ctx).ForLocalization()
}

// RegisterRights publishes every lifecycle right to the catalog. Rights
// already in the catalog are skipped, so calling it again is harmless.
// It returns the number of rights added.
func (r *Registry) RegisterRights(ctx context.Context, catalog domain.PermissionCatalog) (int, error) {
	descriptions := r.RightsDescription(ctx)
	names := make([]string, 0, len(descriptions))
	for name := range descriptions {
		names = append(names, name)
	}
	sort.Strings(names)

	added := 0
	for _, name := range names {
		if _, ok := catalog.Lookup(name); ok {
			continue
		}
		right := domain.Right{Name: name, Description: descriptions[name], Category: domain.RightCategory}
		if err := catalog.Register(right); err != nil {
			return added, fmt.Errorf("register right %s: %w", name, err)
		}
		added++
	}
	if added > 0 {
		r.logger.Info("registered lifecycle rights", "count", added)
	}
	return added, nil
}

// CreateLifecycle validates and stores a new lifecycle. Status names must
// be unique within the lifecycle; other lifecycles may reuse them.
func (r *Registry) CreateLifecycle(ctx context.Context, name string, def domain.Definition) (*domain.Lifecycle, error) {
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if name == domain.MapsKey {
		return nil, fmt.Errorf("%w: %q", domain.ErrReservedName, name)
	}
	if err := domain.ValidateStatuses(def.Initial, def.Active, def.Inactive); err != nil {
		return nil, err
	}
	if err := validateRights(def.Rights); err != nil {
		return nil, err
	}
	if err := validateActions(def.Actions); err != nil {
		return nil, err
	}

	event := domain.NewLifecycleChanged(name, domain.RoutingKeyCreated)
	return r.mutateLifecycle(ctx, "create", name, &event, func(cfg *domain.Config) error {
		if cfg.Has(name) {
			return fmt.Errorf("%w: %q", domain.ErrAlreadyExists, name)
		}
		cfg.Put(name, def.WithDefaults())
		return nil
	})
}

// SetStatuses replaces the statuses of an existing lifecycle.
func (r *Registry) SetStatuses(ctx context.Context, name string, initial, active, inactive []string) (*domain.Lifecycle, error) {
	if err := domain.ValidateStatuses(initial, active, inactive); err != nil {
		return nil, err
	}
	event := domain.NewLifecycleChanged(name, domain.RoutingKeyStatusesChanged)
	return r.update(ctx, "set_statuses", name, &event, func(def *domain.Definition) {
		def.Initial = initial
		def.Active = active
		def.Inactive = inactive
	})
}

// SetTransitions replaces the transition graph of an existing lifecycle.
func (r *Registry) SetTransitions(ctx context.Context, name string, transitions map[string][]string) (*domain.Lifecycle, error) {
	event := domain.NewLifecycleChanged(name, domain.RoutingKeyTransitionsChanged)
	return r.update(ctx, "set_transitions", name, &event, func(def *domain.Definition) {
		def.Transitions = transitions
	})
}

// SetRights replaces the right table of an existing lifecycle.
func (r *Registry) SetRights(ctx context.Context, name string, rights map[string]string) (*domain.Lifecycle, error) {
	if err := validateRights(rights); err != nil {
		return nil, err
	}
	event := domain.NewLifecycleChanged(name, domain.RoutingKeyRightsChanged)
	return r.update(ctx, "set_rights", name, &event, func(def *domain.Definition) {
		def.Rights = rights
	})
}

// SetActions replaces the actions of an existing lifecycle.
func (r *Registry) SetActions(ctx context.Context, name string, actions domain.Actions) (*domain.Lifecycle, error) {
	if err := validateActions(actions); err != nil {
		return nil, err
	}
	event := domain.NewLifecycleChanged(name, domain.RoutingKeyActionsChanged)
	return r.update(ctx, "set_actions", name, &event, func(def *domain.Definition) {
		def.Actions = actions
	})
}

// Defaults holds the default statuses of a lifecycle. Empty fields keep the
// current value; a non-nil Situations map replaces the named defaults.
type Defaults struct {
	Initial    string
	Inactive   string
	Situations map[string]string
}

// SetDefaults updates the default statuses of an existing lifecycle.
func (r *Registry) SetDefaults(ctx context.Context, name string, defaults Defaults) (*domain.Lifecycle, error) {
	event := domain.NewLifecycleChanged(name, domain.RoutingKeyDefaultsChanged)
	return r.update(ctx, "set_defaults", name, &event, func(def *domain.Definition) {
		if defaults.Initial != "" {
			def.DefaultInitial = defaults.Initial
		}
		if defaults.Inactive != "" {
			def.DefaultInactive = defaults.Inactive
		}
		if defaults.Situations != nil {
			def.Defaults = defaults.Situations
		}
	})
}

// SetMap stores the status translation used when an item moves from one
// lifecycle to another. Both lifecycles must exist.
func (r *Registry) SetMap(ctx context.Context, from, to string, mapping map[string]string) error {
	event := domain.NewMapChanged(from, to)
	_, err := r.mutate(ctx, "set_map", &event, func(cfg *domain.Config) error {
		for _, name := range []string{from, to} {
			if !cfg.Has(name) {
				return fmt.Errorf("%w: %q", domain.ErrNotLoaded, name)
			}
		}
		cfg.SetMap(from, to, mapping)
		return nil
	})
	return err
}

func (r *Registry) update(ctx context.Context, op, name string, event eventWithMetadata, apply func(def *domain.Definition)) (*domain.Lifecycle, error) {
	return r.mutateLifecycle(ctx, op, name, event, func(cfg *domain.Config) error {
		def, ok := cfg.Get(name)
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrNotLoaded, name)
		}
		apply(&def)
		cfg.Put(name, def)
		return nil
	})
}

func (r *Registry) mutateLifecycle(ctx context.Context, op, name string, event eventWithMetadata, stage func(cfg *domain.Config) error) (*domain.Lifecycle, error) {
	snap, err := r.mutate(ctx, op, event, stage)
	if err != nil {
		return nil, err
	}
	l, _ := snap.Lifecycle(name)
	return l, nil
}

type eventWithMetadata interface {
	sharedDomain.DomainEvent
	Correlate(id uuid.UUID)
}

// mutate stages a change on a copy of the source, persists the copy and
// only then installs it. A failed persist leaves memory untouched.
func (r *Registry) mutate(ctx context.Context, op string, event eventWithMetadata, stage func(cfg *domain.Config) error) (*domain.Snapshot, error) {
	ctx = observability.WithOperation(ctx, "registry."+op)
	done := observability.Measure(r.metrics, "registry."+op)

	snap, err := r.commit(ctx, op, stage)
	done(err)
	if err != nil {
		return nil, err
	}

	if r.catalog != nil {
		if _, err := r.RegisterRights(ctx, r.catalog); err != nil {
			r.logger.WarnContext(ctx, "failed to register lifecycle rights", "error", err)
		}
	}
	r.publish(ctx, event)
	return snap, nil
}

func (r *Registry) commit(ctx context.Context, op string, stage func(cfg *domain.Config) error) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, err := r.sourceLocked(ctx)
	if err != nil {
		return nil, err
	}
	next := src.Clone()
	if err := stage(next); err != nil {
		return nil, err
	}

	r.metrics.Counter(observability.MetricStorePersists, 1)
	if err := r.store.Persist(ctx, next); err != nil {
		r.metrics.Counter(observability.MetricRegistryRollbacks, 1, observability.T("operation", op))
		r.logger.WarnContext(ctx, "failed to persist lifecycles, change discarded", "error", err)
		return nil, fmt.Errorf("persist lifecycles: %w", err)
	}

	r.source = next
	r.metrics.Counter(observability.MetricRegistryMutations, 1, observability.T("operation", op))
	return r.rebuildLocked(), nil
}

// sourceLocked returns the source of truth, reading it from the store when
// the registry was never filled or the last fill failed.
func (r *Registry) sourceLocked(ctx context.Context) (*domain.Config, error) {
	if r.source != nil {
		return r.source, nil
	}
	r.metrics.Counter(observability.MetricStoreLoads, 1)
	cfg, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	r.source = cfg
	r.fillErr = nil
	r.rebuildLocked()
	return cfg, nil
}

func (r *Registry) publish(ctx context.Context, event eventWithMetadata) {
	if r.publisher == nil {
		return
	}
	event.Correlate(sharedApplication.CorrelationID(observability.CorrelationIDFromContext(ctx)))

	err := eventbus.PublishEvent(ctx, r.publisher, event, r.instanceID)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to publish lifecycle event",
			"routing_key", event.RoutingKey(),
			"error", err,
		)
		return
	}
	r.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", event.RoutingKey()))
}

func validateRights(rights map[string]string) error {
	for key := range rights {
		if _, _, err := domain.ParseTransitionKey(key); err != nil {
			return err
		}
	}
	return nil
}

func validateActions(actions domain.Actions) error {
	for _, a := range actions {
		if err := domain.ValidateUpdate(a.Update); err != nil {
			return err
		}
	}
	return nil
}
