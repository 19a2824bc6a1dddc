package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyedLimiter keeps one token bucket per key (client IP or user id).
// Buckets are created lazily and never evicted; the key space is bounded
// by the active user base.
type keyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	r       rate.Limit
	burst   int
}

func newKeyedLimiter(r rate.Limit, burst int) *keyedLimiter {
	return &keyedLimiter{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		burst:   burst,
	}
}

func (l *keyedLimiter) allow(key string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(l.r, l.burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow()
}

func RateLimitByIP(r rate.Limit, burst int) gin.HandlerFunc {
	limiter := newKeyedLimiter(r, burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests from this IP"})
			return
		}
		c.Next()
	}
}

func RateLimitByUser(r rate.Limit, burst int) gin.HandlerFunc {
	limiter := newKeyedLimiter(r, burst)
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			// Anonymous requests fall through to the IP limiter.
			c.Next()
			return
		}
		if !limiter.allow(userID) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests from this user"})
			return
		}
		c.Next()
	}
}
