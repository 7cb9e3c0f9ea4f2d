package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"classbot.app/tutor/internal/metrics"
)

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type limiterPool struct {
	mu    sync.Mutex
	m     map[int64]*rate.Limiter
	limit rate.Limit
	burst int
}

func (p *limiterPool) get(key int64) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.m[key]; ok {
		return l
	}
	l := rate.NewLimiter(p.limit, p.burst)
	p.m[key] = l
	return l
}

// RateLimit throttles each session independently. It must run after
// RequireSession; requests without a session share one bucket.
// A non-positive RPS disables limiting.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	pool := &limiterPool{
		m:     make(map[int64]*rate.Limiter),
		limit: rate.Limit(cfg.RPS),
		burst: burst,
	}

	return func(c *gin.Context) {
		var key int64
		if session := SessionFrom(c); session != nil {
			key = session.ID
		}
		if !pool.get(key).Allow() {
			metrics.RateLimited.Inc()
			slog.WarnContext(c.Request.Context(), "rate limited", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
