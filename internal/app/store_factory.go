package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/infrastructure/persistence"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/lifecycles/pkg/config"
)

// StoreFactory opens the lifecycle store selected by configuration and
// keeps the connections it opened so they can be closed with the store.
type StoreFactory struct {
	cfg    *config.Config
	logger *slog.Logger

	conn  database.Connection
	redis *redis.Client
}

// NewStoreFactory creates a new store factory.
func NewStoreFactory(cfg *config.Config, logger *slog.Logger) *StoreFactory {
	return &StoreFactory{cfg: cfg, logger: logger}
}

// Open creates the configured store.
func (f *StoreFactory) Open(ctx context.Context) (domain.Store, error) {
	switch f.cfg.Store {
	case config.StoreFile:
		f.logger.Info("using file lifecycle store", "path", f.cfg.ConfigPath)
		return persistence.NewFileStore(f.cfg.ConfigPath), nil

	case config.StoreSQLite, config.StorePostgres:
		return f.openSQL(ctx)

	case config.StoreRedis:
		opt, err := redis.ParseURL(f.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		f.redis = client
		f.logger.Info("using Redis lifecycle store", "key", f.cfg.RedisKey)
		return persistence.NewRedisStore(client, f.cfg.RedisKey), nil

	case config.StoreMemory:
		f.logger.Info("using in-memory lifecycle store")
		return persistence.NewMemoryStore(nil), nil

	default:
		return nil, fmt.Errorf("unsupported lifecycle store: %s", f.cfg.Store)
	}
}

func (f *StoreFactory) openSQL(ctx context.Context) (domain.Store, error) {
	driver, err := database.ParseDriver(f.cfg.Store)
	if err != nil {
		return nil, err
	}
	dbCfg := database.Config{
		Driver:     driver,
		URL:        f.cfg.DatabaseURL,
		SQLitePath: f.cfg.SQLitePath,
		MaxConns:   f.cfg.DatabaseMaxConns,
	}

	conn, err := database.Open(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store, err := persistence.NewSQLStore(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	f.conn = conn
	f.logger.Info("using SQL lifecycle store", "driver", conn.Driver().String())
	return store, nil
}

// Connection returns the database connection opened for a SQL store.
func (f *StoreFactory) Connection() database.Connection {
	return f.conn
}

// RedisClient returns the client opened for a Redis store.
func (f *StoreFactory) RedisClient() *redis.Client {
	return f.redis
}

// Close releases the connections opened by Open.
func (f *StoreFactory) Close() {
	if f.redis != nil {
		if err := f.redis.Close(); err != nil {
			f.logger.Warn("error closing Redis connection", "error", err)
		}
		f.redis = nil
	}
	if f.conn != nil {
		if err := f.conn.Close(); err != nil {
			f.logger.Warn("error closing database connection", "error", err)
		}
		f.conn = nil
	}
}
