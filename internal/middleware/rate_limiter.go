package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"rackpos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// counter is a fixed-window request counter keyed by client.
type counter interface {
	// hit records one request and returns the count in the current window
	// together with the time left in it.
	hit(ctx context.Context, key string) (int64, time.Duration, error)
}

// RateLimiter allows limit requests per window per client IP. With a Redis
// client the window is shared across instances; without one it is local.
func RateLimiter(rdb *redis.Client, name string, limit int, window time.Duration, msg string) gin.HandlerFunc {
	var cnt counter
	if rdb != nil {
		cnt = &redisCounter{rdb: rdb, window: window}
	} else {
		cnt = newMemoryCounter(window)
	}
	return func(c *gin.Context) {
		n, ttl, err := cnt.hit(c.Request.Context(), fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP()))
		if err != nil {
			// fail open: a broken limiter must not take the API down
			log.Warn().Err(err).Str("limiter", name).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if n > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

type redisCounter struct {
	rdb    *redis.Client
	window time.Duration
}

func (r *redisCounter) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, r.window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}

type memoryEntry struct {
	count     int64
	windowEnd time.Time
}

type memoryCounter struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*memoryEntry
	lastGC  time.Time
}

func newMemoryCounter(window time.Duration) *memoryCounter {
	return &memoryCounter{window: window, entries: make(map[string]*memoryEntry), lastGC: time.Now()}
}

func (m *memoryCounter) hit(_ context.Context, key string) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastGC) > 5*time.Minute {
		for k, e := range m.entries {
			if now.After(e.windowEnd) {
				delete(m.entries, k)
			}
		}
		m.lastGC = now
	}

	e, ok := m.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &memoryEntry{windowEnd: now.Add(m.window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd.Sub(now), nil
}
