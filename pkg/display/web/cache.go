package web

import "sync"

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a ring of the last frames sent, so clients can be told to
// redraw a frame they already have by index.
type cache struct {
	cache   []cacheEntry
	idx     int
	enabled bool
	size    int
	sync.RWMutex
}

func newCache(size int) *cache {
	return &cache{
		cache:   make([]cacheEntry, size),
		size:    size,
		enabled: true,
	}
}

func (c *cache) has(hash uint64) bool {
	return c.index(hash) != -1
}

// add stores output and returns its index.
func (c *cache) add(hash uint64, output []byte) int {
	i := c.idx
	c.cache[i] = cacheEntry{hash: hash, data: output}
	c.idx = (c.idx + 1) % c.size
	return i
}

func (c *cache) index(hash uint64) int {
	if !c.enabled {
		return -1
	}
	for i, e := range c.cache {
		if e.data != nil && e.hash == hash {
			return i
		}
	}

	return -1
}
