// Package resilient decorates a transaction repository with bounded retry on
// write failures. The gateway redelivers notifications on its own schedule,
// so a write that keeps failing is surfaced to the caller and absorbed by the
// idempotent reconciliation path on the next delivery.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/midtrans-payment-reconciler/internal/config"
	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
)

// Writer retries Create and Update against the underlying repository.
// Each attempt re-issues the identical operation and data; the decision that
// produced the write is never revisited here. Reads pass through untouched.
type Writer struct {
	repo        transaction.Repository
	logger      *slog.Logger
	maxAttempts int
	delay       time.Duration
	timeout     time.Duration
}

// NewWriter creates a retrying writer around the given repository
func NewWriter(logger *slog.Logger, repo transaction.Repository, cfg *config.RetryConfig) *Writer {
	return &Writer{
		repo:        repo,
		logger:      logger,
		maxAttempts: cfg.MaxAttempts,
		delay:       cfg.Delay,
		timeout:     cfg.Timeout,
	}
}

// GetByOrderID delegates to the underlying repository without retry
func (w *Writer) GetByOrderID(ctx context.Context, orderID string) (*transaction.Record, error) {
	return w.repo.GetByOrderID(ctx, orderID)
}

// Create stores a new record, retrying transient failures
func (w *Writer) Create(ctx context.Context, record *transaction.Record) error {
	return w.withRetry(ctx, "create", record.OrderID, func(ctx context.Context) error {
		return w.repo.Create(ctx, record)
	})
}

// Update applies a status change, retrying transient failures
func (w *Writer) Update(ctx context.Context, orderID string, update transaction.StatusUpdate) error {
	return w.withRetry(ctx, "update", orderID, func(ctx context.Context) error {
		return w.repo.Update(ctx, orderID, update)
	})
}

// withRetry runs the write under an overall timeout so a stuck store cannot
// hold the calling request open indefinitely. Not-found and duplicate errors
// are decisions, not transient store failures, and are returned immediately.
func (w *Writer) withRetry(ctx context.Context, op, orderID string, fn func(context.Context) error) error {
	writeCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		lastErr = fn(writeCtx)
		if lastErr == nil {
			if attempt > 1 {
				w.logger.Info("Store write succeeded after retry",
					"op", op,
					"order_id", orderID,
					"attempt", attempt,
				)
			}
			return nil
		}

		if errors.Is(lastErr, transaction.ErrRecordNotFound{}) || errors.Is(lastErr, transaction.ErrDuplicateRecord{}) {
			return lastErr
		}

		w.logger.Warn("Store write failed",
			"op", op,
			"order_id", orderID,
			"attempt", attempt,
			"max_attempts", w.maxAttempts,
			"error", lastErr,
		)

		if attempt == w.maxAttempts || writeCtx.Err() != nil {
			break
		}

		if w.delay > 0 {
			select {
			case <-time.After(w.delay):
			case <-writeCtx.Done():
			}
		}
	}

	return fmt.Errorf("%s for order %s failed: %w: %w", op, orderID, transaction.ErrPersistenceExhausted, lastErr)
}
