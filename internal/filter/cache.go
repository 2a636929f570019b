package filter

import "sync"

type cacheKey struct {
	url   string
	gamma int
}

// Cache maps (image URL, gamma percentage) to the encoded result of a
// previous gamma pass, trading memory for repeated O(width*height) pixel
// work. An entry is valid only for the exact image and exact integer
// gamma value it was computed for; the session clears the cache wholesale
// on CSV reload and per image on filter reset.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]byte
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey][]byte)}
}

// Get returns the cached encoded image for the exact (url, gamma) pair.
func (c *Cache) Get(url string, gamma int) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[cacheKey{url, gamma}]
	return data, ok
}

// Put stores an encoded gamma result.
func (c *Cache) Put(url string, gamma int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{url, gamma}] = data
}

// InvalidateImage drops every entry of one image.
func (c *Cache) InvalidateImage(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.url == url {
			delete(c.entries, k)
		}
	}
}

// Clear drops everything. Invoked when the image list changes.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]byte)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
