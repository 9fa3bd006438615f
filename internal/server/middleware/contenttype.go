package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects POST bodies that do not declare a JSON content type.
// Exempt paths skip the check: the gateway controls the headers on its
// callback requests and that endpoint must stay open to it.
func RequireJSON(exemptPaths ...string) gin.HandlerFunc {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if _, ok := exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		if !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": gin.H{
					"code":    "UNSUPPORTED_MEDIA_TYPE",
					"message": "invalid content type",
				},
			})
			return
		}

		c.Next()
	}
}
