package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user-roster/internal/adapter/ratelimit"
)

// RateLimiter returns a Gin middleware that counts requests per route and
// client IP. Requests over the limit get 429.
func RateLimiter(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		// Route pattern, not the raw path, so /v1/kv/:key is one bucket
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		d, _ := limiter.Allow(c.Request.Context(), c.Request.Method+" "+route, c.ClientIP())
		if d.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
		}
		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(d.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Rate limit exceeded: " + strconv.FormatInt(d.Limit, 10) + " requests per " + d.Window.String(),
			})
			return
		}

		c.Next()
	}
}
