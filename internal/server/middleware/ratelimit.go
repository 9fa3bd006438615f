package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/midtrans-payment-reconciler/internal/ratelimit"
)

// localClientKey is used when no forwarding header identifies the client,
// so direct requests share one admission window.
const localClientKey = "local"

// RateLimit guards an endpoint with the per-client admission gate. The
// client key comes from the forwarded-IP headers; the gateway callback
// route must never sit behind this middleware.
func RateLimit(logger *slog.Logger, gate *ratelimit.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Forwarded-For")
		if key == "" {
			key = c.GetHeader("X-Real-IP")
		}
		if key == "" {
			key = localClientKey
		}

		if !gate.Admit(key) {
			logger.Warn("Request rejected by admission gate",
				"client_key", key,
				"path", c.Request.URL.Path,
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "TOO_MANY_REQUESTS",
					"message": "too many requests",
				},
			})
			return
		}

		c.Next()
	}
}
