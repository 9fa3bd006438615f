package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
	"github.com/midtrans-payment-reconciler/internal/gateway/midtrans"
)

// ReconciliationServiceImpl implements the ReconciliationService interface.
//
// The read-decide-write sequence is not atomic: two concurrent notifications
// for one order can both read the same prior status and race at the store,
// which serializes document writes last-write-wins. Deduplication is keyed on
// status equality because the gateway provides no stable delivery identifier.
type ReconciliationServiceImpl struct {
	repo      transaction.Repository
	serverKey string
	logger    *slog.Logger
}

// NewReconciliationService creates a new reconciliation service. The
// repository is expected to be the resilient writer; its reads pass through
// without retry.
func NewReconciliationService(logger *slog.Logger, repo transaction.Repository, serverKey string) ReconciliationService {
	return &ReconciliationServiceImpl{
		repo:      repo,
		serverKey: serverKey,
		logger:    logger,
	}
}

// Reconcile authenticates a notification and applies it to stored state.
// Authentication and status validation run before any store access.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, n *transaction.Notification) (Outcome, error) {
	logger := s.logger.With("order_id", n.OrderID)

	if !midtrans.VerifySignature(n, s.serverKey) {
		logger.Warn("Notification rejected: signature mismatch")
		return "", ErrAuthenticationFailed
	}

	status, err := transaction.ParseStatus(n.TransactionStatus)
	if err != nil {
		logger.Warn("Notification rejected: unrecognized status",
			"transaction_status", n.TransactionStatus,
		)
		return "", fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}

	current, err := s.repo.GetByOrderID(ctx, n.OrderID)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		logger.Error("Failed to read transaction record", "error", err)
		return "", err
	}

	now := time.Now()

	if current == nil {
		// The gateway's callback can race the intake response, or intake may
		// have failed after the gateway call succeeded. Either way the
		// notification itself creates the record.
		record := &transaction.Record{
			OrderID:         n.OrderID,
			Status:          status,
			PaymentType:     n.PaymentType,
			TransactionTime: n.TransactionTime,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			logger.Error("Failed to create record from notification",
				"status", string(status),
				"error", err,
			)
			return "", err
		}
		logger.Info("Transaction record created from notification", "status", string(status))
		return OutcomeCreated, nil
	}

	if current.Status == status {
		// Redelivery of information already applied; success without a write
		// is what makes at-least-once delivery safe.
		logger.Info("Duplicate notification ignored", "status", string(status))
		return OutcomeDuplicate, nil
	}

	update := transaction.StatusUpdate{
		Status:          status,
		PaymentType:     n.PaymentType,
		TransactionTime: n.TransactionTime,
		UpdatedAt:       now,
	}
	if err := s.repo.Update(ctx, n.OrderID, update); err != nil {
		logger.Error("Failed to update transaction record",
			"from", string(current.Status),
			"to", string(status),
			"error", err,
		)
		return "", err
	}

	logger.Info("Transaction record updated",
		"from", string(current.Status),
		"to", string(status),
	)
	return OutcomeUpdated, nil
}
