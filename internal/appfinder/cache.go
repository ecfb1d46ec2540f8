package appfinder

import "sync"

// Cache stores discovery results keyed by starting URL. Entries never expire
// on their own; the operator invalidates them explicitly.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Result
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Result)}
}

func (c *Cache) Get(startURL string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[startURL]
	return result, ok
}

func (c *Cache) Put(startURL string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[startURL] = result
}

func (c *Cache) Invalidate(startURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, startURL)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Result)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
