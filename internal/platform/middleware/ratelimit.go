package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/isi/clinic/internal/platform/auth"
	"github.com/isi/clinic/internal/platform/metrics"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns default rate limiting settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// limiterStore holds one token bucket per client key.
type limiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	config   RateLimitConfig
}

func newLimiterStore(cfg RateLimitConfig) *limiterStore {
	return &limiterStore{
		limiters: make(map[string]*rate.Limiter),
		config:   cfg,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.config.RequestsPerSecond), s.config.BurstSize)
		s.limiters[key] = l
	}
	return l
}

// retryAfter returns the whole seconds until l grants another token.
func retryAfter(l *rate.Limiter) int {
	r := l.ReserveN(time.Now(), 1)
	if !r.OK() {
		return 1
	}
	d := r.Delay()
	r.Cancel()
	return int(math.Ceil(d.Seconds())) + 1
}

// rateLimitKey scopes limits per authenticated user when known, per IP
// otherwise.
func rateLimitKey(c echo.Context) string {
	key := c.RealIP()
	if uid := auth.UserIDFromContext(c.Request().Context()); uid != "" {
		key = uid + ":" + key
	}
	return key
}

func limitHeader(cfg RateLimitConfig) string {
	return strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)
}

func tooManyRequests(c echo.Context, cfg RateLimitConfig, retry int) error {
	c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
	c.Response().Header().Set("X-RateLimit-Limit", limitHeader(cfg))
	c.Response().Header().Set("X-RateLimit-Remaining", "0")
	return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
}

// RateLimit returns an in-process rate limiting middleware.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := newLimiterStore(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := store.get(rateLimitKey(c))
			if !l.Allow() {
				metrics.RateLimitRejected.WithLabelValues("memory").Inc()
				return tooManyRequests(c, cfg, retryAfter(l))
			}
			metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader(cfg))
			return next(c)
		}
	}
}
