package empath

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Response Cache — TTL + LRU with similarity lookup
// ──────────────────────────────────────────────

// CacheEntry is one cached (input → response) pair. Entries are immutable
// after creation; only their recency position changes on read.
type CacheEntry struct {
	Key       string      `json:"key"` // normalized input
	Response  string      `json:"response"`
	Affect    AffectScore `json:"affect"`
	CreatedAt time.Time   `json:"created_at"`
}

// ResponseCache is the cache contract the orchestrator depends on.
// InMemoryResponseCache implements it locally; store.RedisResponseCache
// implements it for shared deployments.
type ResponseCache interface {
	// Get returns the live entry for text, or false. Expired entries are
	// treated as absent.
	Get(text string) (*CacheEntry, bool)
	// Set stores a response under the normalized form of text.
	Set(text, response string, affect AffectScore)
	// FindSimilar returns the live entry whose key has the highest
	// Jaccard word-set similarity with text, at or above threshold.
	FindSimilar(text string, threshold float64) (*CacheEntry, bool)
	// Size returns the number of live entries.
	Size() int
}

// ResponseCacheConfig controls TTL and capacity bounds.
type ResponseCacheConfig struct {
	TTL      time.Duration // entry lifetime, default 30m
	Capacity int           // max entries, default 256
}

// DefaultResponseCacheConfig returns production defaults.
func DefaultResponseCacheConfig() ResponseCacheConfig {
	return ResponseCacheConfig{
		TTL:      30 * time.Minute,
		Capacity: 256,
	}
}

// InMemoryResponseCache is a mutex-guarded TTL+LRU cache. Reads bump the
// entry to the most-recent position; eviction removes the least recently
// read entry after expired ones are purged.
type InMemoryResponseCache struct {
	config ResponseCacheConfig

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently read

	now func() time.Time // injectable for tests
}

// NewResponseCache creates an in-memory cache.
func NewResponseCache(config ...ResponseCacheConfig) *InMemoryResponseCache {
	cfg := DefaultResponseCacheConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultResponseCacheConfig().Capacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultResponseCacheConfig().TTL
	}
	return &InMemoryResponseCache{
		config:  cfg,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// NormalizeCacheKey lowercases and collapses all whitespace runs.
func NormalizeCacheKey(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Get implements ResponseCache.
func (c *InMemoryResponseCache) Get(text string) (*CacheEntry, bool) {
	key := NormalizeCacheKey(text)
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*CacheEntry)
	if c.expired(entry) {
		c.remove(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return entry, true
}

// Set implements ResponseCache.
func (c *InMemoryResponseCache) Set(text, response string, affect AffectScore) {
	key := NormalizeCacheKey(text)
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	entry := &CacheEntry{
		Key:       key,
		Response:  response,
		Affect:    affect,
		CreatedAt: c.now(),
	}
	c.entries[key] = c.order.PushFront(entry)

	c.purgeExpiredLocked()
	for c.order.Len() > c.config.Capacity {
		if back := c.order.Back(); back != nil {
			c.remove(back)
		}
	}
}

// FindSimilar implements ResponseCache. Linear scan over live keys; the
// bounded capacity keeps this acceptable.
func (c *InMemoryResponseCache) FindSimilar(text string, threshold float64) (*CacheEntry, bool) {
	query := tokenSet(NormalizeCacheKey(text))
	if len(query) == 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var best *list.Element
	bestSim := 0.0
	for el := c.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*CacheEntry)
		if c.expired(entry) {
			continue
		}
		sim := jaccard(query, tokenSet(entry.Key))
		if sim >= threshold && sim > bestSim {
			bestSim = sim
			best = el
		}
	}
	if best == nil {
		return nil, false
	}
	entry := best.Value.(*CacheEntry)
	c.order.MoveToFront(best)
	return entry, true
}

// Size implements ResponseCache.
func (c *InMemoryResponseCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpiredLocked()
	return c.order.Len()
}

func (c *InMemoryResponseCache) expired(entry *CacheEntry) bool {
	return c.now().Sub(entry.CreatedAt) > c.config.TTL
}

func (c *InMemoryResponseCache) remove(el *list.Element) {
	entry := el.Value.(*CacheEntry)
	delete(c.entries, entry.Key)
	c.order.Remove(el)
}

func (c *InMemoryResponseCache) purgeExpiredLocked() {
	var dead []*list.Element
	for el := c.order.Front(); el != nil; el = el.Next() {
		if c.expired(el.Value.(*CacheEntry)) {
			dead = append(dead, el)
		}
	}
	for _, el := range dead {
		c.remove(el)
	}
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		set[w] = struct{}{}
	}
	return set
}

// jaccard is |intersection| / |union| over word sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
