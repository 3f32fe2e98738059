package permissions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// ErrEmptyRightName is returned when registering a right without a name.
var ErrEmptyRightName = errors.New("right name is required")

// MemoryCatalog is a process-wide permission catalog. Names are matched
// without regard to case; the first registration wins.
type MemoryCatalog struct {
	mu     sync.RWMutex
	rights map[string]domain.Right
}

// NewMemoryCatalog creates a catalog seeded with rights.
func NewMemoryCatalog(rights ...domain.Right) *MemoryCatalog {
	c := &MemoryCatalog{rights: make(map[string]domain.Right)}
	for _, r := range rights {
		_ = c.Register(r)
	}
	return c
}

// Lookup finds a right by name.
func (c *MemoryCatalog) Lookup(name string) (domain.Right, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rights[strings.ToLower(name)]
	return r, ok
}

// Register adds a right unless one with the same name exists.
func (c *MemoryCatalog) Register(right domain.Right) error {
	if right.Name == "" {
		return ErrEmptyRightName
	}
	key := strings.ToLower(right.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.rights[key]; ok {
		if existing.Name != right.Name {
			return fmt.Errorf("right %q already registered as %q", right.Name, existing.Name)
		}
		return nil
	}
	c.rights[key] = right
	return nil
}

// All returns every right sorted by name.
func (c *MemoryCatalog) All() []domain.Right {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Right, 0, len(c.rights))
	for _, r := range c.rights {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
