package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SubmitLimiterConfig throttles the transaction-submitting endpoints. Every
// deploy or withdrawal costs gas (or sponsor budget), so these routes are
// limited far below normal read traffic.
type SubmitLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultSubmitLimiter allows one submission per second with a small burst,
// enough for an interactive creator and far below what drains a sponsor.
var DefaultSubmitLimiter = SubmitLimiterConfig{RequestsPerSecond: 1, Burst: 3}

type limiterMap struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	config   SubmitLimiterConfig
}

func (m *limiterMap) get(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Bound the map so abandoned clients cannot grow it forever.
	if len(m.limiters) > 10000 {
		m.limiters = make(map[string]*rate.Limiter)
	}

	limiter, ok := m.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(m.config.RequestsPerSecond), m.config.Burst)
		m.limiters[key] = limiter
	}
	return limiter
}

// SubmitLimiter rate-limits per client IP and rejects over-limit requests
// with 429 and a retry hint.
func SubmitLimiter(config SubmitLimiterConfig) gin.HandlerFunc {
	limiters := &limiterMap{
		limiters: make(map[string]*rate.Limiter),
		config:   config,
	}

	return func(c *gin.Context) {
		limiter := limiters.get(c.ClientIP())
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := reservation.DelayFrom(time.Now()).Seconds()
			reservation.Cancel()

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many submissions, slow down",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
