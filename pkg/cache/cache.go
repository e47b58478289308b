// Package cache holds rendered responses for a bounded time.
package cache

import (
	"sync"
	"time"
)

// Timed is a cache that invalidates entries once they are older than its TTL.
// It is safe for concurrent use.
type Timed struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value   []byte
	created time.Time
}

// NewTimed creates a Timed cache whose entries expire after ttl.
func NewTimed(ttl time.Duration) *Timed {
	return &Timed{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Set stores val under key, replacing any previous value.
func (c *Timed) Set(key string, val []byte) {
	c.set(key, val, time.Now())
}

func (c *Timed) set(key string, val []byte, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: val, created: now}
}

// Get retrieves the value for key. ok is false when the key is missing or
// expired; expired entries are evicted on lookup.
func (c *Timed) Get(key string) (value []byte, ok bool) {
	return c.get(key, time.Now())
}

func (c *Timed) get(key string, now time.Time) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(e.created) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Sweep evicts every expired entry and reports how many remain.
func (c *Timed) Sweep() int {
	return c.sweep(time.Now())
}

func (c *Timed) sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.Sub(e.created) > c.ttl {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}
