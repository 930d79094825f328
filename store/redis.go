// Package store provides shared backing implementations of the core's
// cache contract for multi-process deployments.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	empath "github.com/emberworks/empath-core-go"
)

// RedisCacheConfig configures the Redis response cache.
type RedisCacheConfig struct {
	Prefix   string        // key prefix, default "empath:cache"
	TTL      time.Duration // entry lifetime, default 30m
	Capacity int64         // max entries, default 256
}

// DefaultRedisCacheConfig returns production defaults.
func DefaultRedisCacheConfig() RedisCacheConfig {
	return RedisCacheConfig{
		Prefix:   "empath:cache",
		TTL:      30 * time.Minute,
		Capacity: 256,
	}
}

// RedisResponseCache implements empath.ResponseCache on Redis so several
// engine processes can share one response cache. Entries live under
// "{prefix}:{normalizedKey}" with a native TTL; a sorted set at
// "{prefix}:index" scores each key by last read time for LRU eviction.
//
// Similarity lookup walks the index and computes word-set overlap
// in-process, same as the in-memory cache. The bounded capacity keeps
// that walk cheap.
type RedisResponseCache struct {
	client redis.UniversalClient
	config RedisCacheConfig
	ctx    context.Context
}

// NewRedisResponseCache creates the cache. Config is optional.
func NewRedisResponseCache(client redis.UniversalClient, config ...RedisCacheConfig) *RedisResponseCache {
	cfg := DefaultRedisCacheConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	def := DefaultRedisCacheConfig()
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	return &RedisResponseCache{
		client: client,
		config: cfg,
		ctx:    context.Background(),
	}
}

type storedEntry struct {
	Response  string             `json:"response"`
	Affect    empath.AffectScore `json:"affect"`
	CreatedAt time.Time          `json:"created_at"`
}

func (c *RedisResponseCache) entryKey(normalized string) string {
	return c.config.Prefix + ":" + normalized
}

func (c *RedisResponseCache) indexKey() string {
	return c.config.Prefix + ":index"
}

// Get returns the cached entry for the exact normalized form of text.
func (c *RedisResponseCache) Get(text string) (*empath.CacheEntry, bool) {
	return c.fetch(empath.NormalizeCacheKey(text))
}

func (c *RedisResponseCache) fetch(normalized string) (*empath.CacheEntry, bool) {
	raw, err := c.client.Get(c.ctx, c.entryKey(normalized)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Entry expired natively; drop the stale index member.
			c.client.ZRem(c.ctx, c.indexKey(), normalized)
		}
		return nil, false
	}
	var stored storedEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, false
	}

	// Recency bump keeps LRU ordering read-sensitive.
	c.client.ZAdd(c.ctx, c.indexKey(), redis.Z{Score: float64(time.Now().UnixMicro()), Member: normalized})

	return &empath.CacheEntry{
		Key:       normalized,
		Response:  stored.Response,
		Affect:    stored.Affect,
		CreatedAt: stored.CreatedAt,
	}, true
}

// Set stores response under the normalized form of text.
func (c *RedisResponseCache) Set(text, response string, affect empath.AffectScore) {
	normalized := empath.NormalizeCacheKey(text)
	if normalized == "" {
		return
	}
	data, err := json.Marshal(storedEntry{
		Response:  response,
		Affect:    affect,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return
	}

	c.client.Set(c.ctx, c.entryKey(normalized), string(data), c.config.TTL)
	c.client.ZAdd(c.ctx, c.indexKey(), redis.Z{Score: float64(time.Now().UnixMicro()), Member: normalized})

	c.evictOverflow()
}

// evictOverflow removes least-recently-read members beyond capacity.
func (c *RedisResponseCache) evictOverflow() {
	count, err := c.client.ZCard(c.ctx, c.indexKey()).Result()
	if err != nil || count <= c.config.Capacity {
		return
	}
	victims, err := c.client.ZPopMin(c.ctx, c.indexKey(), count-c.config.Capacity).Result()
	if err != nil {
		return
	}
	for _, v := range victims {
		if member, ok := v.Member.(string); ok {
			c.client.Del(c.ctx, c.entryKey(member))
		}
	}
}

// FindSimilar returns the best entry whose key overlaps text's word set
// at or above threshold.
func (c *RedisResponseCache) FindSimilar(text string, threshold float64) (*empath.CacheEntry, bool) {
	query := tokenSet(empath.NormalizeCacheKey(text))
	if len(query) == 0 {
		return nil, false
	}

	members, err := c.client.ZRange(c.ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, false
	}

	bestKey := ""
	bestSim := 0.0
	for _, member := range members {
		sim := jaccard(query, tokenSet(member))
		if sim >= threshold && sim > bestSim {
			bestSim = sim
			bestKey = member
		}
	}
	if bestKey == "" {
		return nil, false
	}
	return c.fetch(bestKey)
}

// Size counts live entries, pruning index members whose entries expired.
func (c *RedisResponseCache) Size() int {
	members, err := c.client.ZRange(c.ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return 0
	}
	live := 0
	for _, member := range members {
		exists, err := c.client.Exists(c.ctx, c.entryKey(member)).Result()
		if err != nil {
			continue
		}
		if exists == 0 {
			c.client.ZRem(c.ctx, c.indexKey(), member)
			continue
		}
		live++
	}
	return live
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		set[w] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
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
