package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// AuthRateLimiter throttles the sign-up/token endpoints per client address.
// With redis configured the counter survives restarts and is shared across
// replicas; otherwise an in-process token bucket per client stands in.
type AuthRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewAuthRateLimiter(rdb *redis.Client, limit int, window time.Duration, logger *slog.Logger) *AuthRateLimiter {
	return &AuthRateLimiter{
		rdb:     rdb,
		limit:   limit,
		window:  window,
		logger:  logger,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *AuthRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (l *AuthRateLimiter) allow(c *gin.Context) bool {
	client := c.ClientIP()
	if l.rdb == nil {
		return l.allowLocal(client)
	}

	key := fmt.Sprintf("ratelimit:auth:%s", client)
	count, err := l.rdb.Incr(c.Request.Context(), key).Result()
	if err != nil {
		// redis being down should not lock clients out
		l.logger.Warn("rate limiter falling back to local buckets", "error", err)
		return l.allowLocal(client)
	}
	if count == 1 {
		l.rdb.Expire(c.Request.Context(), key, l.window)
	}
	return count <= int64(l.limit)
}

func (l *AuthRateLimiter) allowLocal(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[client]
	if !ok {
		per := rate.Every(l.window / time.Duration(l.limit))
		bucket = rate.NewLimiter(per, l.limit)
		l.buckets[client] = bucket
	}
	return bucket.Allow()
}
