package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/KaramelBytes/tokenscope/internal/metrics"
)

// ipLimiter hands out one token bucket per client IP.
type ipLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time
	rps         rate.Limit
	burst       int
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		limiters:    make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
		rps:         rate.Limit(rps),
		burst:       burst,
	}
}

// get returns the limiter for ip, creating it on first use.
func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// reset hourly; idle clients would otherwise accumulate
	if time.Since(l.lastCleanup) > time.Hour {
		l.limiters = make(map[string]*rate.Limiter)
		l.lastCleanup = time.Now()
	}

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// middleware rejects requests over the per-IP budget with 429.
func (l *ipLimiter) middleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !l.get(ip).Allow() {
				metrics.RateLimitedTotal.Inc()
				logger.Warn("rate limit exceeded", zap.String("ip", ip))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
