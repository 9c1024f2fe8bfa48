package middleware

import (
	"strconv" // Key formatting
	"time"    // Window duration

	"contacts_app/internal/apperr" // Typed application errors

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// RateLimitMiddleware enforces a fixed window of at most limit calls per
// window per caller per route, backed by Redis check-and-increment. A Redis
// outage fails open: the store still protects correctness, so availability
// wins over throttling.
func RateLimitMiddleware(rdb *redis.Client, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Key by authenticated user when available, client IP otherwise
		caller := c.ClientIP()
		if user, ok := CurrentUser(c); ok {
			caller = strconv.Itoa(int(user.ID))
		}
		key := "ratelimit:" + caller + ":" + c.FullPath() // One window per caller per route
		ctx := c.Request.Context()
		// Check-and-increment atomically with the expiry. NX only starts the
		// clock when the key has none, so later hits do not stretch the
		// window and a counter orphaned without a TTL gets one on the next
		// request instead of throttling its caller forever.
		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			return nil
		})
		if err != nil {
			// Fail open on Redis errors
			logrus.WithFields(logrus.Fields{
				"key":   key,         // Limiter key
				"error": err.Error(), // Redis error
			}).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		// Reject once the window is exhausted
		if count := incr.Val(); count > limit {
			apperr.Abort(c, apperr.RateLimited("Too many requests"))
			return
		}
		c.Next() // Proceed to the next handler
	}
}
