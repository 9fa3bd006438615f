package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/midtrans-payment-reconciler/internal/ratelimit"
	"github.com/midtrans-payment-reconciler/internal/server/handler"
	"github.com/midtrans-payment-reconciler/internal/server/middleware"
)

// callbackPath is where the payment gateway delivers status notifications.
// It is exempt from the JSON content-type guard and never rate limited:
// rejecting a genuine notification only causes the gateway to redeliver it.
const callbackPath = "/midtrans/callback"

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	gate *ratelimit.Gate,
	transactionHandler *handler.TransactionHandler,
	callbackHandler *handler.CallbackHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequireJSON(callbackPath))

	// Payment intake, guarded by the per-client admission gate
	r.POST("/transaction", middleware.RateLimit(logger, gate), transactionHandler.Create)

	// Gateway notifications
	r.POST(callbackPath, callbackHandler.Notify)

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
