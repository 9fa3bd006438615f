package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
	"github.com/midtrans-payment-reconciler/internal/gateway/midtrans"
)

// IntakeServiceImpl implements the IntakeService interface
type IntakeServiceImpl struct {
	repo   transaction.Repository
	tokens TokenProvider
	logger *slog.Logger
}

// NewIntakeService creates a new intake service. The repository is expected
// to be the resilient writer so the initial record write carries the retry
// contract.
func NewIntakeService(logger *slog.Logger, repo transaction.Repository, tokens TokenProvider) IntakeService {
	return &IntakeServiceImpl{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Create obtains a Snap token for the order and persists the initial pending
// record. If persistence fails after the gateway call succeeded, the error is
// returned even though a gateway-side transaction now exists; the first
// notification for the order recreates the missing record.
func (s *IntakeServiceImpl) Create(ctx context.Context, orderID string, amount int64, name, email string) (string, error) {
	if orderID == "" || amount <= 0 || name == "" || email == "" {
		return "", ErrInvalidPayload
	}

	snapResp, err := s.tokens.CreateTransaction(ctx, &midtrans.SnapRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     orderID,
			GrossAmount: amount,
		},
		CustomerDetails: midtrans.CustomerDetails{
			FirstName: name,
			Email:     email,
		},
	})
	if err != nil {
		s.logger.Error("Failed to create gateway transaction",
			"order_id", orderID,
			"amount", amount,
			"error", err,
		)
		return "", fmt.Errorf("%w: %w", ErrGateway, err)
	}

	now := time.Now()
	record := &transaction.Record{
		OrderID:   orderID,
		Amount:    amount,
		Status:    transaction.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to persist pending transaction record",
			"order_id", orderID,
			"error", err,
		)
		return "", err
	}

	s.logger.Info("Transaction created",
		"order_id", orderID,
		"amount", amount,
	)

	return snapResp.Token, nil
}
