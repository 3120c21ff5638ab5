package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig bounds requests per client IP within a fixed window.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RedisRateLimiter implements fixed-window counting on Redis. State lives
// in Redis so the limit holds across restarts.
type RedisRateLimiter struct {
	redis *redis.Client
}

// NewRedisRateLimiter creates a Redis-backed limiter.
func NewRedisRateLimiter(redisClient *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{redis: redisClient}
}

// Allow counts one request for the key and reports whether it is within
// the window budget.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, cfg RateLimitConfig) (allowed bool, remaining int, err error) {
	window := time.Now().Unix() / int64(cfg.Window.Seconds())
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := r.redis.Incr(ctx, bucket).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := r.redis.Expire(ctx, bucket, cfg.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	remaining = cfg.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= cfg.Limit, remaining, nil
}

// RateLimit enforces the config per client IP. Redis trouble fails open:
// limiting is protection, not a dependency the API should die on.
func RateLimit(limiter *RedisRateLimiter, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		allowed, remaining, err := limiter.Allow(c.Request.Context(), key, cfg)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
