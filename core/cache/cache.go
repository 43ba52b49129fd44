// Package cache provides a thread-safe LRU cache and a parse cache that
// memoizes ATF parse results by source fingerprint.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a generic LRU cache.
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache.
	Get(key K) (V, bool)

	// Put stores a value in the cache.
	Put(key K, value V)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called when an entry is dropped by eviction or expiry.
	OnEvict func(key, value any)
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{MaxSize: 256}
}

// now is replaced in tests to expire entries without sleeping.
var now = time.Now

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

type lruCache[K comparable, V any] struct {
	mu        sync.Mutex
	config    Config
	entries   map[K]*list.Element
	evictList *list.List
	stats     Stats
}

// NewLRUCache creates a new LRU cache with the given configuration.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	return &lruCache[K, V]{
		config:    config,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
	}
}

func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	e := ent.Value.(*entry[K, V])
	if c.config.TTL > 0 && now().After(e.expiresAt) {
		c.removeElement(ent)
		c.stats.Misses++
		return zero, false
	}
	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return e.value, true
}

func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = c.expiry()
		return
	}

	e := &entry[K, V]{key: key, value: value, expiresAt: c.expiry()}
	c.entries[key] = c.evictList.PushFront(e)

	if c.config.MaxSize > 0 && c.evictList.Len() > c.config.MaxSize {
		if oldest := c.evictList.Back(); oldest != nil {
			c.removeElement(oldest)
			c.stats.Evictions++
		}
	}
}

func (c *lruCache[K, V]) expiry() time.Time {
	if c.config.TTL <= 0 {
		return time.Time{}
	}
	return now().Add(c.config.TTL)
}

func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

func (c *lruCache[K, V]) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry[K, V])
	delete(c.entries, e.key)

	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}
