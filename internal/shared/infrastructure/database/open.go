package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config selects and configures a backend.
type Config struct {
	// Driver picks the backend. When empty it is detected from URL.
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the SQLite database file. ":memory:" opens a private
	// in-memory database.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool. Zero keeps the pgx default.
	MaxConns int
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[Driver]Opener)
)

// Register makes a driver available to Open. Driver packages call it from
// init, so importing a driver package for its side effect is enough.
func Register(d Driver, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[d] = open
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	d := cfg.Driver
	if d == "" {
		d = DetectDriver(cfg.URL)
	}

	openersMu.RLock()
	open, ok := openers[d]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not linked into this binary", ErrUnknownDriver, d)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath is the database file used when SQLITE_PATH is unset.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".lifecycles", "lifecycles.db")
}
