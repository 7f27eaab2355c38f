package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const visitorIdleEviction = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles login attempts per client address. Entries for
// idle clients are evicted lazily on access.
type LoginRateLimiter struct {
	perMin int
	burst  int

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewLoginRateLimiter(perMin, burst int) *LoginRateLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if burst <= 0 {
		burst = perMin
	}
	return &LoginRateLimiter{
		perMin:   perMin,
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

// Middleware returns the echo middleware enforcing the limit.
func (l *LoginRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}

func (l *LoginRateLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.visitors[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(float64(l.perMin)/60.0), l.burst)}
		l.visitors[addr] = v
	}
	v.lastSeen = now

	for key, other := range l.visitors {
		if key != addr && now.Sub(other.lastSeen) > visitorIdleEviction {
			delete(l.visitors, key)
		}
	}

	return v.limiter.Allow()
}
