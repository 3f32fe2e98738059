package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/subscribers"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/infrastructure/permissions"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/infrastructure/persistence"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/lifecycles/pkg/config"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Store
	Stores  *StoreFactory
	Store   domain.Store
	Breaker *persistence.BreakerStore
	Watcher *persistence.FileWatcher

	// Events
	EventPublisher   eventbus.Publisher
	EventBus         *eventbus.LocalBus
	Outbox           *outbox.Processor
	ReloadSubscriber *subscribers.ReloadSubscriber

	// Registry
	Registry *application.Registry
	Catalog  *permissions.MemoryCatalog

	// Command Handlers
	CreateLifecycleHandler *commands.CreateLifecycleHandler
	UpdateLifecycleHandler *commands.UpdateLifecycleHandler
	SetMapHandler          *commands.SetMapHandler

	// Query Handlers
	GetLifecycleHandler    *queries.GetLifecycleHandler
	ListLifecyclesHandler  *queries.ListLifecyclesHandler
	CheckTransitionHandler *queries.CheckTransitionHandler
	GetActionsHandler      *queries.GetActionsHandler
	MapsHandler            *queries.MapsHandler
	RightsHandler          *queries.RightsHandler
	LocalizationHandler    *queries.LocalizationHandler
	ValidateConfigHandler  *queries.ValidateConfigHandler
}

// NewContainer opens the configured store and event publisher and wires
// all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	stores := NewStoreFactory(cfg, logger)
	store, err := stores.Open(ctx)
	if err != nil {
		return nil, err
	}

	var (
		publisher eventbus.Publisher
		bus       *eventbus.LocalBus
		processor *outbox.Processor
	)
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				stores.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
			bus = eventbus.NewLocalBus(logger)
			publisher = bus
		} else {
			// Events the broker rejects are parked and redelivered.
			repo := outbox.NewMemoryRepository(cfg.OutboxCapacity)
			publisher = outbox.NewPublisher(rabbit, repo, logger)
			processor = outbox.NewProcessor(repo, rabbit, outboxConfig(cfg), logger)
		}
	} else {
		bus = eventbus.NewLocalBus(logger)
		publisher = bus
	}

	c := newContainer(cfg, logger, store, publisher, bus)
	c.Stores = stores
	if processor != nil {
		c.Outbox = processor.WithMetrics(c.Metrics)
		c.Health.Register("outbox", observability.OutboxHealthChecker(processor.Pending, cfg.OutboxCapacity))
	}
	return c, nil
}

// NewMemoryContainer creates a container backed by an in-memory store seeded
// with seed. No external services are used.
func NewMemoryContainer(seed *domain.Config, logger *slog.Logger) *Container {
	cfg := &config.Config{
		AppEnv:     "development",
		Store:      config.StoreMemory,
		InstanceID: "memory",
	}
	bus := eventbus.NewLocalBus(logger)
	return newContainer(cfg, logger, persistence.NewMemoryStore(seed), bus, bus)
}

func newContainer(cfg *config.Config, logger *slog.Logger, store domain.Store, publisher eventbus.Publisher, bus *eventbus.LocalBus) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:         cfg,
		Logger:         logger,
		Metrics:        observability.NewInMemoryMetrics(),
		Health:         observability.NewHealthRegistry(),
		Store:          store,
		EventPublisher: publisher,
		EventBus:       bus,
		Catalog:        permissions.NewMemoryCatalog(),
	}

	if cfg.BreakerEnabled && cfg.Store != config.StoreMemory {
		c.Breaker = persistence.NewBreakerStore(store, persistence.BreakerConfig{
			Name:             "lifecycle-store-" + cfg.Store,
			FailureThreshold: convert.IntToUint32Clamped(cfg.BreakerFailures),
			Timeout:          cfg.BreakerTimeout,
			MaxRequests:      1,
		}, logger, c.Metrics)
		c.Store = c.Breaker
	}

	// Create the registry
	c.Registry = application.NewRegistry(c.Store,
		application.WithPublisher(c.EventPublisher),
		application.WithLogger(logger),
		application.WithMetrics(c.Metrics),
		application.WithCatalog(c.Catalog),
		application.WithInstanceID(cfg.InstanceID),
	)
	c.ReloadSubscriber = subscribers.NewReloadSubscriber(c.Registry, cfg.InstanceID, logger).
		WithCatalog(c.Catalog).
		WithMetrics(c.Metrics)
	if c.EventBus != nil {
		c.EventBus.RegisterConsumer(c.ReloadSubscriber)
	}

	if cfg.Store == config.StoreFile && cfg.WatchConfig {
		c.Watcher = persistence.NewFileWatcher(cfg.ConfigPath, c.reloadFromFile, logger)
	}

	// Create command handlers
	c.CreateLifecycleHandler = commands.NewCreateLifecycleHandler(c.Registry)
	c.UpdateLifecycleHandler = commands.NewUpdateLifecycleHandler(c.Registry)
	c.SetMapHandler = commands.NewSetMapHandler(c.Registry)

	// Create query handlers
	c.GetLifecycleHandler = queries.NewGetLifecycleHandler(c.Registry)
	c.ListLifecyclesHandler = queries.NewListLifecyclesHandler(c.Registry)
	c.CheckTransitionHandler = queries.NewCheckTransitionHandler(c.Registry)
	c.GetActionsHandler = queries.NewGetActionsHandler(c.Registry)
	c.MapsHandler = queries.NewMapsHandler(c.Registry)
	c.RightsHandler = queries.NewRightsHandler(c.Registry)
	c.LocalizationHandler = queries.NewLocalizationHandler(c.Registry)
	c.ValidateConfigHandler = queries.NewValidateConfigHandler(c.Registry)

	// Register health checks
	c.Health.Register("registry", observability.RegistryHealthChecker(c.Registry.Health))
	if p, ok := c.Store.(domain.Pinger); ok {
		if cfg.Store == config.StoreRedis {
			c.Health.Register("store", observability.PingChecker("redis", observability.HealthStatusDegraded, p.Ping))
		} else {
			c.Health.Register("store", observability.PingChecker("database", observability.HealthStatusUnhealthy, p.Ping))
		}
	}
	if rabbit, ok := brokerPublisher(c.EventPublisher); ok {
		c.Health.Register("rabbitmq", observability.PingChecker("rabbitmq", observability.HealthStatusDegraded, rabbit.Ping))
	}

	return c
}

// Start fills the registry, publishes lifecycle rights to the catalog and
// starts the configuration watcher when enabled.
func (c *Container) Start(ctx context.Context) error {
	start := time.Now()
	count, err := c.Registry.Health(ctx)
	if err != nil {
		c.Logger.Warn("lifecycle store unavailable at startup", "error", err)
	} else {
		c.Logger.Info("lifecycle registry loaded",
			"lifecycles", count,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	if _, err := c.Registry.RegisterRights(ctx, c.Catalog); err != nil {
		return fmt.Errorf("register lifecycle rights: %w", err)
	}

	if c.Watcher != nil {
		if err := c.Watcher.Start(ctx); err != nil {
			return err
		}
	}
	if c.Outbox != nil {
		if err := c.Outbox.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func outboxConfig(cfg *config.Config) outbox.ProcessorConfig {
	pc := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		pc.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxMaxRetries > 0 {
		pc.MaxRetries = cfg.OutboxMaxRetries
	}
	return pc
}

func brokerPublisher(p eventbus.Publisher) (*eventbus.RabbitMQPublisher, bool) {
	if parked, ok := p.(*outbox.Publisher); ok {
		p = parked.Next()
	}
	rabbit, ok := p.(*eventbus.RabbitMQPublisher)
	return rabbit, ok
}

func (c *Container) reloadFromFile(ctx context.Context) error {
	if err := c.Registry.Reload(ctx); err != nil {
		return err
	}
	_, err := c.Registry.RegisterRights(ctx, c.Catalog)
	return err
}

// Close releases every resource held by the container.
func (c *Container) Close() {
	if c.Watcher != nil {
		c.Watcher.Stop()
	}

	if c.Outbox != nil {
		c.Outbox.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Stores != nil {
		c.Stores.Close()
	}
}
