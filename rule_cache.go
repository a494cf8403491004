package hudcfg

import "sync"

// ProgramCache stores compiled rule programs keyed by expression strings.
// Rebuilds re-evaluate the same small predicate set for every item, so a
// cache turns per-item evaluation into a lookup plus a run.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapProgramCache is the default unbounded ProgramCache. The rule set is
// host-configured and tiny, so eviction is not a concern.
type MapProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMapProgramCache constructs an empty cache.
func NewMapProgramCache() *MapProgramCache {
	return &MapProgramCache{programs: make(map[string]any)}
}

// Get returns the cached program for key.
func (c *MapProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

// Set stores value under key, replacing any previous entry.
func (c *MapProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = make(map[string]any)
	}
	c.programs[key] = value
}
