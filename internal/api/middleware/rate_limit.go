package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cmorrow/bracketcast/pkg/utils"
)

type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// RateLimit caps requests per client IP with a token bucket. Used on the
// bracket simulation endpoints, which burn real CPU per call.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	limiter := &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			utils.SendError(c, http.StatusTooManyRequests,
				utils.NewAppError("RATE_LIMITED", "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
