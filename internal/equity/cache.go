package equity

import "sync"

// cache memoises equity results. Entries are write-once: the computation
// behind a key is deterministic, so racing writers store identical values
// and last-writer-wins is safe. Reads take the shared lock only.
type cache struct {
	mu      sync.RWMutex
	entries map[string]float64
}

func newCache() *cache {
	return &cache{entries: make(map[string]float64)}
}

func (c *cache) get(key string) (float64, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *cache) put(key string, v float64) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}
