package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
	"github.com/midtrans-payment-reconciler/internal/service"
)

// TransactionHandler handles HTTP requests for payment intake
type TransactionHandler struct {
	intakeService service.IntakeService
	logger        *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, intakeService service.IntakeService) *TransactionHandler {
	return &TransactionHandler{
		intakeService: intakeService,
		logger:        logger,
	}
}

// Create handles intake of a new payment: it validates the request, obtains
// a checkout token from the gateway, and persists the pending record
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	token, err := h.intakeService.Create(c.Request.Context(), req.OrderID, req.Amount, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayload):
			h.logger.Warn("Rejected transaction request", "order_id", req.OrderID, "error", err)
			RespondBadRequest(c, "Invalid transaction request")
		case errors.Is(err, transaction.ErrDuplicateRecord{}):
			h.logger.Warn("Attempt to create transaction with duplicate order ID", "order_id", req.OrderID)
			RespondConflict(c, "Transaction with this order ID already exists")
		default:
			h.logger.Error("Failed to create transaction", "order_id", req.OrderID, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, TokenResponse{Token: token})
}
