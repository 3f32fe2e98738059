package domain

import "context"

// Store loads and persists the whole lifecycle configuration. Persist
// always receives the complete configuration, never a delta.
type Store interface {
	Load(ctx context.Context) (*Config, error)
	Persist(ctx context.Context, cfg *Config) error
}

// Pinger is implemented by stores that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
