package middleware

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"anoa.com/eventtech/pkg/ratelimit"
	"anoa.com/eventtech/pkg/response"
	"github.com/gin-gonic/gin"
)

// RateLimit allows one request per window for each client IP and action.
// Only write methods are limited.
func RateLimit(limiter *ratelimit.Limiter, action string, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP(), action, window)
		if err != nil {
			// redis trouble should not lock everybody out
			log.Printf("[ratelimit] %s: %v", action, err)
			c.Next()
			return
		}

		if !allowed {
			if ttl, err := limiter.TTL(c.Request.Context(), c.ClientIP(), action); err == nil && ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
			}
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
