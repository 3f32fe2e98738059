package application_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

var errDiskFull = errors.New("disk full")

type fakeStore struct {
	mu         sync.Mutex
	cfg        *domain.Config
	loadErr    error
	persistErr error
	loads      int
	persists   int
}

func newFakeStore(cfg *domain.Config) *fakeStore {
	return &fakeStore{cfg: cfg}
}

func (s *fakeStore) Load(ctx context.Context) (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.cfg.Clone(), nil
}

func (s *fakeStore) Persist(ctx context.Context, cfg *domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persistErr != nil {
		return s.persistErr
	}
	s.persists++
	s.cfg = cfg.Clone()
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []eventbus.ConsumedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var event eventbus.ConsumedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) events() []eventbus.ConsumedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]eventbus.ConsumedEvent(nil), p.messages...)
}

type fakeCatalog struct {
	rights map[string]domain.Right
}

func (c *fakeCatalog) Lookup(name string) (domain.Right, bool) {
	r, ok := c.rights[name]
	return r, ok
}

func (c *fakeCatalog) Register(right domain.Right) error {
	if c.rights == nil {
		c.rights = make(map[string]domain.Right)
	}
	c.rights[right.Name] = right
	return nil
}

func seededConfig() *domain.Config {
	cfg := domain.NewConfig()
	cfg.Put("default", domain.Definition{
		Initial:         []string{"new"},
		Active:          []string{"open", "stalled"},
		Inactive:        []string{"resolved", "rejected", "deleted"},
		DefaultInitial:  "new",
		DefaultInactive: "resolved",
		Transitions: map[string][]string{
			"new":     {"open", "rejected"},
			"open":    {"stalled", "resolved"},
			"stalled": {"open"},
		},
		Rights: map[string]string{
			"* -> deleted": "DeleteTicket",
		},
	})
	return cfg
}

func approvalsDefinition() domain.Definition {
	return domain.Definition{
		Initial:  []string{"pending"},
		Active:   []string{"open"},
		Inactive: []string{"approved", "denied", "deleted"},
		Transitions: map[string][]string{
			"pending": {"approved", "denied"},
		},
		Rights: map[string]string{
			"pending -> approved": "ApproveTicket",
			"pending -> denied":   "ApproveTicket",
		},
	}
}

func TestRegistry_FillsLazily(t *testing.T) {
	store := newFakeStore(seededConfig())
	reg := application.NewRegistry(store)

	assert.Equal(t, 0, store.loads)

	l, ok := reg.Load(context.Background(), "default")
	require.True(t, ok)
	assert.Equal(t, "default", l.Name())
	assert.Equal(t, 1, store.loads)

	reg.Load(context.Background(), "default")
	assert.Equal(t, 1, store.loads)
}

func TestRegistry_ConcurrentFirstUseLoadsOnce(t *testing.T) {
	store := newFakeStore(seededConfig())
	reg := application.NewRegistry(store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"default"}, reg.List(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.loads)
}

func TestRegistry_UnavailableStoreYieldsEmptyRegistry(t *testing.T) {
	store := newFakeStore(seededConfig())
	store.loadErr = errors.New("connection refused")
	reg := application.NewRegistry(store)
	ctx := context.Background()

	assert.Empty(t, reg.List(ctx))
	global, ok := reg.Load(ctx, "")
	require.True(t, ok)
	assert.Empty(t, global.Valid())

	count, err := reg.Health(ctx)
	assert.Equal(t, 0, count)
	assert.Error(t, err)

	_, err = reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, 0, store.persists)
}

func TestRegistry_CreateLifecycle(t *testing.T) {
	store := newFakeStore(seededConfig())
	reg := application.NewRegistry(store)
	ctx := context.Background()

	l, err := reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.NoError(t, err)

	assert.Equal(t, "approvals", l.Name())
	assert.Equal(t, "pending", l.DefaultInitial())
	assert.Equal(t, "approved", l.DefaultInactive())
	assert.Equal(t, []string{"default", "approvals"}, reg.List(ctx))
	assert.True(t, store.cfg.Has("approvals"))

	global, _ := reg.Load(ctx, "")
	assert.True(t, global.IsValid("pending"))
}

func TestRegistry_CreateLifecycleRejections(t *testing.T) {
	tests := []struct {
		name    string
		lcName  string
		def     domain.Definition
		wantErr error
	}{
		{
			name:    "empty name",
			lcName:  "",
			def:     approvalsDefinition(),
			wantErr: domain.ErrEmptyName,
		},
		{
			name:    "reserved name",
			lcName:  domain.MapsKey,
			def:     approvalsDefinition(),
			wantErr: domain.ErrReservedName,
		},
		{
			name:    "existing name",
			lcName:  "default",
			def:     approvalsDefinition(),
			wantErr: domain.ErrAlreadyExists,
		},
		{
			name:   "invalid status",
			lcName: "broken",
			def: domain.Definition{
				Initial: []string{"new/open"},
			},
			wantErr: domain.ErrInvalidStatus,
		},
		{
			name:   "duplicate status across classes",
			lcName: "broken",
			def: domain.Definition{
				Initial:  []string{"new"},
				Inactive: []string{"NEW"},
			},
			wantErr: domain.ErrDuplicateStatus,
		},
		{
			name:   "malformed right key",
			lcName: "broken",
			def: domain.Definition{
				Initial: []string{"new"},
				Rights:  map[string]string{"new": "ModifyTicket"},
			},
			wantErr: domain.ErrMalformedTransitionKey,
		},
		{
			name:   "unknown action update",
			lcName: "broken",
			def: domain.Definition{
				Initial: []string{"new"},
				Actions: domain.Actions{{From: "new", To: "open", Label: "Open", Update: "Shout"}},
			},
			wantErr: domain.ErrInvalidActionUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(seededConfig())
			reg := application.NewRegistry(store)

			_, err := reg.CreateLifecycle(context.Background(), tt.lcName, tt.def)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, store.persists)
		})
	}
}

func TestRegistry_CreateExistingReportsAlreadyExist(t *testing.T) {
	reg := application.NewRegistry(newFakeStore(seededConfig()))

	_, err := reg.CreateLifecycle(context.Background(), "default", approvalsDefinition())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already exist")
}

func TestRegistry_StatusesMayRepeatAcrossLifecycles(t *testing.T) {
	reg := application.NewRegistry(newFakeStore(seededConfig()))

	_, err := reg.CreateLifecycle(context.Background(), "copy", domain.Definition{
		Initial:  []string{"new"},
		Active:   []string{"open"},
		Inactive: []string{"resolved"},
	})

	assert.NoError(t, err)
}

func TestRegistry_PersistFailureRollsBack(t *testing.T) {
	store := newFakeStore(seededConfig())
	metrics := observability.NewInMemoryMetrics()
	publisher := &recordingPublisher{}
	reg := application.NewRegistry(store, application.WithMetrics(metrics), application.WithPublisher(publisher))
	ctx := context.Background()

	before := reg.Snapshot(ctx)
	store.persistErr = errDiskFull

	_, err := reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.ErrorIs(t, err, errDiskFull)

	assert.Same(t, before, reg.Snapshot(ctx))
	assert.Equal(t, []string{"default"}, reg.List(ctx))
	assert.Empty(t, publisher.events())
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricRegistryRollbacks, observability.T("operation", "create")))

	_, err = reg.SetStatuses(ctx, "default", []string{"new"}, nil, []string{"closed"})
	require.ErrorIs(t, err, errDiskFull)

	l, _ := reg.Load(ctx, "default")
	assert.True(t, l.IsValid("stalled"))
	assert.False(t, l.IsValid("closed"))

	store.persistErr = nil
	_, err = reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	assert.NoError(t, err)
}

func TestRegistry_PersistFailureLogsOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{
		Level:  slog.LevelInfo,
		Format: observability.LogFormatJSON,
		Output: &buf,
	})
	store := newFakeStore(seededConfig())
	reg := application.NewRegistry(store, application.WithLogger(logger))
	ctx := observability.WithCorrelationID(context.Background(), "corr-42")

	reg.Snapshot(ctx)
	store.persistErr = errDiskFull
	_, err := reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.ErrorIs(t, err, errDiskFull)

	assert.Contains(t, buf.String(), `"operation":"registry.create"`)
	assert.Contains(t, buf.String(), `"correlation_id":"corr-42"`)
	assert.Contains(t, buf.String(), "change discarded")
}

func TestRegistry_UpdatesRequireExistingLifecycle(t *testing.T) {
	reg := application.NewRegistry(newFakeStore(seededConfig()))
	ctx := context.Background()

	_, err := reg.SetStatuses(ctx, "missing", []string{"new"}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotLoaded)

	_, err = reg.SetTransitions(ctx, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrNotLoaded)

	_, err = reg.SetRights(ctx, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrNotLoaded)

	_, err = reg.SetActions(ctx, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrNotLoaded)

	_, err = reg.SetDefaults(ctx, "missing", application.Defaults{Initial: "new"})
	assert.ErrorIs(t, err, domain.ErrNotLoaded)

	err = reg.SetMap(ctx, "default", "missing", map[string]string{"new": "new"})
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
}

func TestRegistry_SetTransitionsAndRights(t *testing.T) {
	reg := application.NewRegistry(newFakeStore(seededConfig()))
	ctx := context.Background()

	l, err := reg.SetTransitions(ctx, "default", map[string][]string{
		"new":  {"open"},
		"open": {"resolved", "deleted"},
	})
	require.NoError(t, err)
	assert.True(t, l.IsTransition("open", "deleted"))
	assert.False(t, l.IsTransition("new", "rejected"))

	l, err = reg.SetRights(ctx, "default", map[string]string{
		"open -> resolved": "ResolveTicket",
	})
	require.NoError(t, err)
	assert.Equal(t, "ResolveTicket", l.CheckRight("open", "resolved"))
	assert.Equal(t, "DeleteTicket", l.CheckRight("open", "deleted"))

	_, err = reg.SetRights(ctx, "default", map[string]string{"open": "ResolveTicket"})
	assert.ErrorIs(t, err, domain.ErrMalformedTransitionKey)

	assert.Contains(t, reg.RightsDescription(ctx), "ResolveTicket")
}

func TestRegistry_SetActionsAndDefaults(t *testing.T) {
	reg := application.NewRegistry(newFakeStore(seededConfig()))
	ctx := context.Background()

	l, err := reg.SetActions(ctx, "default", domain.Actions{
		{From: "open", To: "resolved", Label: "Resolve", Update: domain.UpdateComment},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Actions{
		{From: "open", To: "resolved", Label: "Resolve", Update: domain.UpdateComment},
	}, l.Actions("open"))

	l, err = reg.SetDefaults(ctx, "default", application.Defaults{
		Inactive:   "rejected",
		Situations: map[string]string{domain.DefaultOnMerge: "resolved"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new", l.DefaultInitial())
	assert.Equal(t, "rejected", l.DefaultInactive())
	assert.Equal(t, "resolved", l.DefaultStatus(domain.DefaultOnMerge))
}

func TestRegistry_SetMap(t *testing.T) {
	store := newFakeStore(seededConfig())
	reg := application.NewRegistry(store)
	ctx := context.Background()

	_, err := reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.NoError(t, err)
	assert.False(t, reg.HasMap(ctx, "default", "approvals"))
	assert.Contains(t, reg.UnmappedLifecyclePairs(ctx), domain.MapPair{From: "default", To: "approvals"})

	err = reg.SetMap(ctx, "default", "approvals", map[string]string{"New": "pending", "Open": "open"})
	require.NoError(t, err)

	assert.True(t, reg.HasMap(ctx, "default", "approvals"))
	target, ok := reg.MapStatus(ctx, "default", "approvals", "NEW")
	assert.True(t, ok)
	assert.Equal(t, "pending", target)

	stored, ok := store.cfg.Map("default", "approvals")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"new": "pending", "open": "open"}, stored)
	assert.NotContains(t, reg.UnmappedLifecyclePairs(ctx), domain.MapPair{From: "default", To: "approvals"})
}

func TestRegistry_PublishesEventsWithInstanceID(t *testing.T) {
	publisher := &recordingPublisher{}
	reg := application.NewRegistry(newFakeStore(seededConfig()),
		application.WithPublisher(publisher),
		application.WithInstanceID("node-a"),
	)
	ctx := observability.WithCorrelationID(context.Background(), "9b2f4c56-8f0e-4d3a-a1b7-5e0c2d9f1a34")

	_, err := reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.NoError(t, err)
	require.NoError(t, reg.SetMap(ctx, "default", "approvals", map[string]string{"new": "pending"}))

	events := publisher.events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.RoutingKeyCreated, events[0].RoutingKey)
	assert.Equal(t, domain.AggregateID("approvals"), events[0].AggregateID)
	assert.Equal(t, "node-a", events[0].Metadata.CausationID)
	assert.Equal(t, "9b2f4c56-8f0e-4d3a-a1b7-5e0c2d9f1a34", events[0].Metadata.CorrelationID)
	assert.Equal(t, domain.RoutingKeyMapChanged, events[1].RoutingKey)

	var payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, "approvals", payload.Name)
}

func TestRegistry_ReloadAndInvalidate(t *testing.T) {
	store := newFakeStore(seededConfig())
	reg := application.NewRegistry(store)
	ctx := context.Background()

	assert.Equal(t, []string{"default"}, reg.List(ctx))

	next := seededConfig()
	next.Put("approvals", approvalsDefinition())
	store.cfg = next

	assert.Equal(t, []string{"default"}, reg.List(ctx))
	require.NoError(t, reg.Reload(ctx))
	assert.Equal(t, []string{"default", "approvals"}, reg.List(ctx))

	store.loadErr = errors.New("gone")
	assert.Error(t, reg.Reload(ctx))
	assert.Equal(t, []string{"default", "approvals"}, reg.List(ctx))

	store.loadErr = nil
	store.cfg = seededConfig()
	reg.Invalidate()
	assert.Equal(t, []string{"default"}, reg.List(ctx))
}

func TestRegistry_ConcurrentCreatesAreSerialized(t *testing.T) {
	store := newFakeStore(seededConfig())
	reg := application.NewRegistry(store)
	ctx := context.Background()

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := reg.CreateLifecycle(ctx, name, approvalsDefinition())
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	assert.Len(t, reg.List(ctx), len(names)+1)
	assert.Equal(t, len(names)+1, store.cfg.Len())
}

func TestRegistry_RegisterRightsIsIdempotent(t *testing.T) {
	reg := application.NewRegistry(newFakeStore(seededConfig()))
	ctx := context.Background()
	_, err := reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.NoError(t, err)

	catalog := &fakeCatalog{}
	added, err := reg.RegisterRights(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	right, ok := catalog.Lookup("ApproveTicket")
	require.True(t, ok)
	assert.Equal(t, domain.RightCategory, right.Category)
	assert.Equal(t, "Change status from pending to approved, denied", right.Description)

	added, err = reg.RegisterRights(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestRegistry_MutationsRegisterNewRights(t *testing.T) {
	catalog := &fakeCatalog{}
	reg := application.NewRegistry(newFakeStore(seededConfig()), application.WithCatalog(catalog))
	ctx := context.Background()

	_, ok := catalog.Lookup("ApproveTicket")
	require.False(t, ok)

	_, err := reg.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.NoError(t, err)
	right, ok := catalog.Lookup("ApproveTicket")
	require.True(t, ok)
	assert.Equal(t, "Change status from pending to approved, denied", right.Description)

	_, err = reg.SetRights(ctx, "default", map[string]string{"open -> resolved": "ResolveTicket"})
	require.NoError(t, err)
	_, ok = catalog.Lookup("ResolveTicket")
	assert.True(t, ok)

	store := newFakeStore(seededConfig())
	store.persistErr = errDiskFull
	untouched := &fakeCatalog{}
	failing := application.NewRegistry(store, application.WithCatalog(untouched))
	_, err = failing.CreateLifecycle(ctx, "approvals", approvalsDefinition())
	require.ErrorIs(t, err, errDiskFull)
	assert.Empty(t, untouched.rights)
}

func TestRegistry_ForLocalization(t *testing.T) {
	reg := application.NewRegistry(newFakeStore(seededConfig()))

	strs := reg.ForLocalization(context.Background())

	assert.Contains(t, strs, "stalled")
	assert.Contains(t, strs, "Change status to deleted")
}
