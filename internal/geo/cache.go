package geo

import (
	"sync"

	"github.com/planweave/planweave/internal/domain"
)

// Cache remembers geocoding results by address string. It is an explicit
// value owned by whoever constructs the Client — never a package-level map —
// so callers control its lifetime and tests get isolation for free.
type Cache struct {
	mu     sync.RWMutex
	coords map[string]domain.Coordinates
}

// NewCache returns an empty geocoding cache.
func NewCache() *Cache {
	return &Cache{coords: make(map[string]domain.Coordinates)}
}

func (c *Cache) get(address string) (domain.Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.coords[address]
	return v, ok
}

func (c *Cache) put(address string, v domain.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coords[address] = v
}

// Len returns the number of cached addresses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.coords)
}
