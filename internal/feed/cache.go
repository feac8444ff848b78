package feed

import (
	"context"
	"sync"
	"time"

	"duka/internal/logger"

	"github.com/go-redis/redis/v8"
)

// CacheStore holds the last successfully generated feed document. The
// store is a single slot: Set replaces it wholly, Get misses once the
// freshness window has passed.
type CacheStore interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, document string)
	Clear(ctx context.Context)
}

// MemoryCache is the default in-process slot, protected by a mutex so
// concurrent regenerations resolve last-writer-wins without lost updates.
type MemoryCache struct {
	mu          sync.Mutex
	document    string
	generatedAt time.Time
	ttl         time.Duration

	now func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl: ttl,
		now: time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.document == "" || c.now().Sub(c.generatedAt) >= c.ttl {
		return "", false
	}
	return c.document, true
}

func (c *MemoryCache) Set(ctx context.Context, document string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.document = document
	c.generatedAt = c.now()
}

func (c *MemoryCache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.document = ""
	c.generatedAt = time.Time{}
}

const redisFeedKey = "duka:feed:xml"

// RedisCache shares the feed slot across instances; used when REDIS_URL is
// configured so the API and worker agree on invalidation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisCache(redisURL string, ttl time.Duration, logger *logger.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context) (string, bool) {
	doc, err := c.client.Get(ctx, redisFeedKey).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.Error("feed cache: redis get failed: %v", err)
		return "", false
	}
	return doc, true
}

func (c *RedisCache) Set(ctx context.Context, document string) {
	if err := c.client.Set(ctx, redisFeedKey, document, c.ttl).Err(); err != nil {
		c.logger.Error("feed cache: redis set failed: %v", err)
	}
}

func (c *RedisCache) Clear(ctx context.Context) {
	if err := c.client.Del(ctx, redisFeedKey).Err(); err != nil {
		c.logger.Error("feed cache: redis del failed: %v", err)
	}
}
