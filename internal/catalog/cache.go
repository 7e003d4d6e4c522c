package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"safari_crm_backend/platform/logger"
)

const cacheKey = "catalog:lookups:v1"

// CachedReader wraps a Reader with a Redis cache. Cache failures are
// never surfaced; the database remains the source of truth.
type CachedReader struct {
	inner  Reader
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCachedReader wraps inner with a Redis cache.
func NewCachedReader(inner Reader, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachedReader {
	return &CachedReader{inner: inner, client: client, ttl: ttl, log: log}
}

var _ Reader = (*CachedReader)(nil)

func (c *CachedReader) Lookups(ctx context.Context) (Lookups, error) {
	if cached, ok := c.fromCache(ctx); ok {
		return cached, nil
	}

	lookups, err := c.inner.Lookups(ctx)
	if err != nil {
		return Lookups{}, err
	}

	c.store(ctx, lookups)
	return lookups, nil
}

// Invalidate drops the cached payload, forcing the next read to hit
// the database.
func (c *CachedReader) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.log.Warn("lookup cache invalidate failed", "error", err)
	}
}

func (c *CachedReader) fromCache(ctx context.Context) (Lookups, bool) {
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("lookup cache read failed", "error", err)
		}
		return Lookups{}, false
	}

	var lookups Lookups
	if err := json.Unmarshal(raw, &lookups); err != nil {
		c.log.Warn("lookup cache payload corrupt", "error", err)
		return Lookups{}, false
	}
	return lookups, true
}

func (c *CachedReader) store(ctx context.Context, lookups Lookups) {
	raw, err := json.Marshal(lookups)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("lookup cache write failed", "error", err)
	}
}
