package middleware

import (
	"fmt"
	"time"

	"github.com/draftproof/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a middleware that enforces a per-IP fixed-window
// rate limit backed by Redis. Authenticated requests are exempt.
func RateLimit(rdb *redis.Client, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowKey := time.Now().Unix() / 60
		key := fmt.Sprintf("dp:rate_limit:%s:%d", ip, windowKey)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis trouble must not take the API down.
			c.Next()
			return
		}

		if count == 1 {
			rdb.Expire(ctx, key, 2*time.Minute)
		}

		if count > int64(perMinute) {
			c.Header("Retry-After", "60")
			response.TooManyRequests(c, "rate limit exceeded, slow down")
			return
		}

		c.Next()
	}
}
