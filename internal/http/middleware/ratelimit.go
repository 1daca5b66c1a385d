package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential attempts per client IP. With a
// Redis client the counter is shared across instances; without one it
// degrades to an in-process window.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

func NewLoginLimiter(rdb *redis.Client, limit int, windowDur time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = 5
	}
	if windowDur <= 0 {
		windowDur = 5 * time.Minute
	}
	return &LoginLimiter{
		rdb:     rdb,
		limit:   limit,
		window:  windowDur,
		windows: map[string]*window{},
	}
}

func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many attempts, try again later",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

func (l *LoginLimiter) allow(c *gin.Context) bool {
	ip := c.ClientIP()
	if l.rdb != nil {
		return l.allowRedis(c, ip)
	}
	return l.allowLocal(ip)
}

func (l *LoginLimiter) allowRedis(c *gin.Context, ip string) bool {
	ctx := c.Request.Context()
	key := "ratelimit:login:" + ip

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not lock everyone out.
		return l.allowLocal(ip)
	}
	if n == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
	return n <= int64(l.limit)
}

func (l *LoginLimiter) allowLocal(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[ip]
	if !ok || now.After(w.resetAt) {
		l.windows[ip] = &window{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	w.count++
	return w.count <= l.limit
}
