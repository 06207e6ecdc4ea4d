package security

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  int64(limit),
		window: window,
	}
}

// WriteRateLimit bounds ledger write submissions per caller. The key is
// the connected wallet address when the handler stored one, the remote
// IP otherwise. Redis here is a rolling counter, not a cache of ledger
// state.
func (r *RateLimiter) WriteRateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := c.RealIP()
			if addr, ok := c.Get("wallet_address").(string); ok && addr != "" {
				identity = addr
			}

			key := fmt.Sprintf("ratelimit:write:%s", identity)
			ctx := c.Request().Context()

			count, err := r.redis.Incr(ctx, key).Result()
			if err != nil {
				// Redis down should not block claims; let it through.
				return next(c)
			}
			if count == 1 {
				r.redis.Expire(ctx, key, r.window)
			}
			if count > r.limit {
				return c.JSON(429, map[string]string{
					"error": "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
