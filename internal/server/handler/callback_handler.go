package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
	"github.com/midtrans-payment-reconciler/internal/service"
)

// CallbackHandler handles status notifications delivered by the payment
// gateway
type CallbackHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *CallbackHandler {
	return &CallbackHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Notify applies a gateway notification to stored state. The gateway
// redelivers on any non-2xx response, so only authentication and validation
// failures reject; everything the service absorbs acknowledges with 200.
func (h *CallbackHandler) Notify(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid notification body", "error", err)
		RespondBadRequest(c, "Invalid notification body: "+err.Error())
		return
	}

	n := &transaction.Notification{
		OrderID:           req.OrderID,
		StatusCode:        req.StatusCode,
		GrossAmount:       req.GrossAmount,
		SignatureKey:      req.SignatureKey,
		TransactionStatus: req.TransactionStatus,
		PaymentType:       req.PaymentType,
		TransactionTime:   req.TransactionTime,
	}

	outcome, err := h.reconciliationService.Reconcile(c.Request.Context(), n)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthenticationFailed):
			h.logger.Warn("Rejected notification with invalid signature", "order_id", req.OrderID)
			RespondForbidden(c, "invalid signature")
		case errors.Is(err, service.ErrInvalidStatus):
			h.logger.Warn("Rejected notification with unknown status",
				"order_id", req.OrderID,
				"transaction_status", req.TransactionStatus,
			)
			RespondBadRequest(c, "unknown transaction status")
		default:
			h.logger.Error("Failed to reconcile notification", "order_id", req.OrderID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	if outcome == service.OutcomeDuplicate {
		RespondOK(c, CallbackResponse{Message: "ignored duplicate callback"})
		return
	}
	RespondOK(c, CallbackResponse{Message: "success"})
}
