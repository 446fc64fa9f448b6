package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// TTL controls how long an idle client's limiter sticks around.
	TTL time.Duration
}

// RateLimiter applies per-client token buckets, keyed by client IP. Idle
// limiters are evicted by the cache TTL.
type RateLimiter struct {
	config   RateLimiterConfig
	limiters *gocache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.TTL <= 0 {
		config.TTL = 10 * time.Minute
	}
	return &RateLimiter{
		config:   config,
		limiters: gocache.New(config.TTL, 2*config.TTL),
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		if limiter, ok := v.(*rate.Limiter); ok {
			return limiter
		}
	}
	limiter := rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)
	rl.limiters.Set(key, limiter, gocache.DefaultExpiration)
	return limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
