package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/isi/clinic/internal/platform/metrics"
)

// RedisRateLimit is a fixed-window limiter shared by every replica of a
// service. Each window allows RequestsPerSecond*window + BurstSize requests
// per client key. A nil client falls back to RateLimit.
func RedisRateLimit(client *redis.Client, cfg RateLimitConfig, window time.Duration) echo.MiddlewareFunc {
	return redisRateLimit(client, cfg, window, time.Now)
}

func redisRateLimit(client *redis.Client, cfg RateLimitConfig, window time.Duration, now func() time.Time) echo.MiddlewareFunc {
	if client == nil {
		return RateLimit(cfg)
	}
	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(cfg.RequestsPerSecond*float64(windowSeconds)) + int64(cfg.BurstSize)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			bucket := now().Unix() / windowSeconds
			key := fmt.Sprintf("rl:%s:%d", rateLimitKey(c), bucket)

			cnt, err := client.Incr(ctx, key).Result()
			if err != nil {
				// Fail open when Redis is unreachable.
				metrics.RateLimitAllowed.WithLabelValues("redis_error").Inc()
				return next(c)
			}
			if cnt == 1 {
				_ = client.Expire(ctx, key, time.Duration(windowSeconds+1)*time.Second).Err()
			}
			if cnt > allowed {
				metrics.RateLimitRejected.WithLabelValues("redis").Inc()
				return tooManyRequests(c, cfg, int(windowSeconds))
			}
			metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader(cfg))
			return next(c)
		}
	}
}
