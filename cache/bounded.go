package cache

import (
	"sync"
	"sync/atomic"
)

// Stats holds optional counters updated by the cache
// Nil fields are skipped
type Stats struct {
	Hits      *atomic.Int64
	Misses    *atomic.Int64
	Evictions *atomic.Int64
}

// Bounded is a fixed-capacity memoization cache with strict insertion-order eviction
// A hot key is evicted once it becomes the oldest insertion, regardless of use
// Thread-safe: single lock per cache, compute runs under the lock
type Bounded[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]V
	order    []K // Ring of keys in insertion order
	head     int // Index of oldest key
	capacity int
	stats    Stats
}

// New creates a cache holding at most capacity entries (minimum 1)
func New[K comparable, V any](capacity int) *Bounded[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Bounded[K, V]{
		items:    make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
		capacity: capacity,
	}
}

// SetStats wires counters, must be called before concurrent use
func (c *Bounded[K, V]) SetStats(s Stats) {
	c.stats = s
}

// GetOrCompute returns the cached value or computes, inserts and returns it
// The compute function is not invoked for keys still resident
func (c *Bounded[K, V]) GetOrCompute(key K, compute func(K) V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[key]; ok {
		inc(c.stats.Hits)
		return v
	}
	inc(c.stats.Misses)

	v := compute(key)
	c.insert(key, v)
	return v
}

// Get returns the cached value without computing
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// insert adds a new key, evicting the oldest when full. Caller holds mu
func (c *Bounded[K, V]) insert(key K, v V) {
	if len(c.order) < c.capacity {
		c.order = append(c.order, key)
		c.items[key] = v
		return
	}

	oldest := c.order[c.head]
	delete(c.items, oldest)
	inc(c.stats.Evictions)

	c.order[c.head] = key
	c.head = (c.head + 1) % c.capacity
	c.items[key] = v
}

// Len returns the number of resident entries
func (c *Bounded[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Cap returns the configured capacity
func (c *Bounded[K, V]) Cap() int {
	return c.capacity
}

// Clear drops all entries, keeping allocated storage
func (c *Bounded[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
	clear(c.order)
	c.order = c.order[:0]
	c.head = 0
}

func inc(p *atomic.Int64) {
	if p != nil {
		p.Add(1)
	}
}
