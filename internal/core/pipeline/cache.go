package pipeline

import "sync"

// Cache holds fully built pipelines keyed by document identity. It is
// the only mutable shared state in the core: Put publishes a complete
// pipeline atomically (last writer wins), Get runs concurrently without
// bound. There is no eviction, size bound or TTL.
type Cache struct {
	mu        sync.RWMutex
	pipelines map[string]*Pipeline
}

func NewCache() *Cache {
	return &Cache{pipelines: make(map[string]*Pipeline)}
}

// Put stores a pipeline under its key, fully replacing any previous
// entry. Callers must only pass completely built pipelines: a query
// racing with Put observes either the old or the new pipeline, never a
// partial one.
func (c *Cache) Put(key string, p *Pipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipelines[key] = p
}

func (c *Cache) Get(key string) (*Pipeline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pipelines[key]
	return p, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}
