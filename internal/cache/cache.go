package cache

import "sync"

// Stats counts cache traffic.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// LRU keeps at most Capacity entries, evicting the least recently used.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]*node[K, V]
	order    list[K, V]
	stats    Stats
}

// New creates an empty cache holding up to capacity entries. A capacity
// below 1 is treated as 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	capacity = max(capacity, 1)
	return &LRU[K, V]{
		capacity: capacity,
		entries:  make(map[K]*node[K, V], capacity),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.order.moveToFront(n)
	c.stats.Hits++
	return n.value, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.order.moveToFront(n)
		return
	}
	for c.order.len() >= c.capacity {
		old := c.order.back()
		c.order.remove(old)
		delete(c.entries, old.key)
		c.stats.Evictions++
	}
	n := &node[K, V]{key: key, value: value}
	c.order.pushFront(n)
	c.entries[key] = n
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Statistics are kept.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*node[K, V], c.capacity)
	c.order = list[K, V]{}
}

// Stats returns a snapshot of the cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Len = len(c.entries)
	s.Capacity = c.capacity
	return s
}
