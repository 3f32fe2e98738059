package persistence

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// MemoryStore keeps the configuration in process memory. Used for tests and
// for read-only deployments seeded from a file.
type MemoryStore struct {
	mu         sync.RWMutex
	cfg        *domain.Config
	persistErr error
}

// NewMemoryStore creates a store seeded with cfg, which may be nil.
func NewMemoryStore(cfg *domain.Config) *MemoryStore {
	return &MemoryStore{cfg: cfg.Clone()}
}

// Load returns a copy of the stored configuration.
func (s *MemoryStore) Load(ctx context.Context) (*domain.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone(), nil
}

// Persist stores a copy of cfg, or fails with the error set by FailPersist.
func (s *MemoryStore) Persist(ctx context.Context, cfg *domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persistErr != nil {
		return s.persistErr
	}
	s.cfg = cfg.Clone()
	return nil
}

// FailPersist makes every following Persist return err; nil clears it.
func (s *MemoryStore) FailPersist(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistErr = err
}
