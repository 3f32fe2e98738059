package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	sharedApplication "github.com/felixgeelhaar/lifecycles/internal/shared/application"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/migrations"
)

// SQLStore keeps one row per lifecycle and one row per map. Definitions are
// stored as JSON documents; position preserves configuration order.
// It works with any database.Connection, SQLite or PostgreSQL.
type SQLStore struct {
	conn database.Connection
	uow  sharedApplication.UnitOfWork
}

// NewSQLStore creates a store on an open connection and applies the schema.
func NewSQLStore(ctx context.Context, conn database.Connection) (*SQLStore, error) {
	if err := migrations.Run(ctx, conn); err != nil {
		return nil, fmt.Errorf("migrate lifecycle store: %w", err)
	}
	return &SQLStore{conn: conn, uow: database.NewUnitOfWork(conn)}, nil
}

// Load reads every lifecycle and map.
func (s *SQLStore) Load(ctx context.Context) (*domain.Config, error) {
	exec := database.ExecutorFromContext(ctx, s.conn)
	cfg := domain.NewConfig()

	rows, err := exec.Query(ctx, `
		SELECT name, definition
		FROM lifecycles
		ORDER BY position, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query lifecycles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, err
		}
		var def domain.Definition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return nil, fmt.Errorf("decode lifecycle %s: %w", name, err)
		}
		cfg.Put(name, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mapRows, err := exec.Query(ctx, `
		SELECT from_lifecycle, to_lifecycle, mapping
		FROM lifecycle_maps
	`)
	if err != nil {
		return nil, fmt.Errorf("query lifecycle maps: %w", err)
	}
	defer mapRows.Close()

	for mapRows.Next() {
		var from, to, raw string
		if err := mapRows.Scan(&from, &to, &raw); err != nil {
			return nil, err
		}
		var mapping map[string]string
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			return nil, fmt.Errorf("decode map %s: %w", domain.TransitionKey(from, to), err)
		}
		cfg.SetMap(from, to, mapping)
	}
	if err := mapRows.Err(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Persist replaces the stored configuration in one transaction.
func (s *SQLStore) Persist(ctx context.Context, cfg *domain.Config) error {
	driver := s.conn.Driver()
	now := time.Now().UTC()

	return sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		exec := database.ExecutorFromContext(txCtx, s.conn)

		if _, err := exec.Exec(txCtx, `DELETE FROM lifecycle_maps`); err != nil {
			return fmt.Errorf("clear lifecycle maps: %w", err)
		}
		if _, err := exec.Exec(txCtx, `DELETE FROM lifecycles`); err != nil {
			return fmt.Errorf("clear lifecycles: %w", err)
		}

		insertLifecycle := driver.Rebind(`
			INSERT INTO lifecycles (name, position, definition, updated_at)
			VALUES (?, ?, ?, ?)
		`)
		for i, name := range cfg.Names() {
			def, _ := cfg.Get(name)
			raw, err := json.Marshal(def)
			if err != nil {
				return fmt.Errorf("encode lifecycle %s: %w", name, err)
			}
			if _, err := exec.Exec(txCtx, insertLifecycle, name, i, string(raw), now); err != nil {
				return fmt.Errorf("insert lifecycle %s: %w", name, err)
			}
		}

		insertMap := driver.Rebind(`
			INSERT INTO lifecycle_maps (from_lifecycle, to_lifecycle, mapping, updated_at)
			VALUES (?, ?, ?, ?)
		`)
		for _, key := range cfg.MapKeys() {
			from, to, err := domain.ParseTransitionKey(key)
			if err != nil {
				return fmt.Errorf("insert map: %w", err)
			}
			mapping, _ := cfg.MapByKey(key)
			raw, err := json.Marshal(mapping)
			if err != nil {
				return fmt.Errorf("encode map %s: %w", key, err)
			}
			if _, err := exec.Exec(txCtx, insertMap, from, to, string(raw), now); err != nil {
				return fmt.Errorf("insert map %s: %w", key, err)
			}
		}
		return nil
	})
}

// Ping verifies the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
