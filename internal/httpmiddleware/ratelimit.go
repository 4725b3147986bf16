package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// KeyFunc extracts the rate-limit key for a request. The zero value
// falls back to the client IP.
type KeyFunc func(c *gin.Context) string

// TokenBucket is an in-memory per-key rate limiter for the API surface.
// Buckets untouched for an hour are pruned on the fly.
type TokenBucket struct {
	capacity int
	rate     int
	keyFor   KeyFunc

	mu      sync.Mutex
	state   map[string]*bucket
	lastGC  time.Time
}

type bucket struct {
	tokens int
	last   time.Time
}

// NewTokenBucket creates a limiter refilling perMinute tokens up to capacity.
func NewTokenBucket(capacity, perMinute int, keyFor KeyFunc) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &TokenBucket{
		capacity: capacity,
		rate:     perMinute,
		keyFor:   keyFor,
		state:    make(map[string]*bucket),
		lastGC:   time.Now(),
	}
}

// Gin returns a handler that rejects over-limit requests with 429.
func (l *TokenBucket) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ""
		if l.keyFor != nil {
			key = l.keyFor(c)
		}
		if key == "" {
			key = c.ClientIP()
		}
		if key == "" {
			key = "unknown"
		}
		if !l.allow(key) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (l *TokenBucket) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastGC) > time.Hour {
		for k, b := range l.state {
			if now.Sub(b.last) > time.Hour {
				delete(l.state, k)
			}
		}
		l.lastGC = now
	}

	b, ok := l.state[key]
	if !ok {
		l.state[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}
	refill := int(now.Sub(b.last).Minutes() * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
