// Package cache serves list endpoints from Redis. Each resource has a
// generation counter; keys embed the current generation, so bumping it on a
// mutation makes every previously cached page unreachable at once.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Resource names used as cache namespaces.
const (
	Productos   = "productos"
	Clientes    = "clientes"
	Proveedores = "proveedores"
	Sucursales  = "sucursales"
	Ventas      = "ventas"
	Cuentas     = "cuentas"
	Stock       = "stock"
	Tasas       = "tasas"
)

// ListCache stores rendered list pages.
type ListCache interface {
	// Get decodes a cached page into dst and reports whether it hit. The
	// returned generation is the one the lookup ran against; pass it to Set
	// so a page loaded before a concurrent Invalidate is stored under the
	// old, unreachable generation.
	Get(ctx context.Context, resource, query string, dst any) (gen int64, hit bool)
	Set(ctx context.Context, resource, query string, gen int64, val any)
	// Invalidate bumps the resource generation.
	Invalidate(ctx context.Context, resources ...string)
}

type redisListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisListCache returns a Redis-backed cache. A nil client yields a no-op cache.
func NewRedisListCache(rdb *redis.Client, ttl time.Duration) ListCache {
	if rdb == nil {
		return Nop{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisListCache{rdb: rdb, ttl: ttl}
}

func genKey(resource string) string { return "cache:gen:" + resource }

// genSinLeer marks a failed generation lookup; Set skips it.
const genSinLeer int64 = -1

func pageKey(resource string, gen int64, query string) string {
	return fmt.Sprintf("cache:list:%s:%d:%s", resource, gen, query)
}

func (c *redisListCache) generation(ctx context.Context, resource string) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(resource)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return genSinLeer, err
	}
	return gen, nil
}

func (c *redisListCache) Get(ctx context.Context, resource, query string, dst any) (int64, bool) {
	gen, err := c.generation(ctx, resource)
	if err != nil {
		log.Warn().Err(err).Str("resource", resource).Msg("cache: generation lookup failed")
		return genSinLeer, false
	}
	raw, err := c.rdb.Get(ctx, pageKey(resource, gen, query)).Bytes()
	if err != nil {
		return gen, false
	}
	return gen, json.Unmarshal(raw, dst) == nil
}

func (c *redisListCache) Set(ctx context.Context, resource, query string, gen int64, val any) {
	if gen < 0 {
		return
	}
	key := pageKey(resource, gen, query)
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (c *redisListCache) Invalidate(ctx context.Context, resources ...string) {
	for _, r := range resources {
		if err := c.rdb.Incr(ctx, genKey(r)).Err(); err != nil {
			log.Warn().Err(err).Str("resource", r).Msg("cache: invalidate failed")
		}
	}
}

// Nop never stores anything. Used when Redis is absent and in unit tests.
type Nop struct{}

func (Nop) Get(context.Context, string, string, any) (int64, bool) { return genSinLeer, false }
func (Nop) Set(context.Context, string, string, int64, any)        {}
func (Nop) Invalidate(context.Context, ...string)                  {}
