package layer

import "sync"

// pointCache is a direct-mapped cache of resolved cells. A colliding put
// evicts the previous entry. The lock is never held while a value is
// computed, so a miss may be computed twice by racing readers; both
// computations yield the same value.
type pointCache struct {
	mu      sync.Mutex
	mask    uint64
	entries []cacheEntry
}

type cacheEntry struct {
	x, z  int64
	v     int
	valid bool
}

// newPointCache rounds size up to a power of two. size <= 0 disables caching.
func newPointCache(size int) *pointCache {
	if size <= 0 {
		return nil
	}
	n := 1
	for n < size {
		n <<= 1
	}
	return &pointCache{
		mask:    uint64(n - 1),
		entries: make([]cacheEntry, n),
	}
}

func (c *pointCache) slot(x, z int64) uint64 {
	// Neighbouring cells land in different slots.
	h := uint64(x)*0x9e3779b97f4a7c15 ^ uint64(z)*0xc2b2ae3d27d4eb4f
	return (h ^ h>>29) & c.mask
}

func (c *pointCache) get(x, z int64) (int, bool) {
	if c == nil {
		return 0, false
	}
	i := c.slot(x, z)
	c.mu.Lock()
	e := c.entries[i]
	c.mu.Unlock()
	if e.valid && e.x == x && e.z == z {
		return e.v, true
	}
	return 0, false
}

func (c *pointCache) put(x, z int64, v int) {
	if c == nil {
		return
	}
	i := c.slot(x, z)
	c.mu.Lock()
	c.entries[i] = cacheEntry{x: x, z: z, v: v, valid: true}
	c.mu.Unlock()
}
