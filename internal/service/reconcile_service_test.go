package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
)

const testServerKey = "SB-Mid-server-test-key"

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*transaction.Record, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, orderID string, update transaction.StatusUpdate) error {
	args := m.Called(ctx, orderID, update)
	return args.Error(0)
}

// signedNotification builds a notification whose signature verifies against
// testServerKey, matching how the gateway signs callbacks.
func signedNotification(orderID, statusCode, grossAmount, status string) *transaction.Notification {
	n := &transaction.Notification{
		OrderID:           orderID,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		TransactionStatus: status,
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	n.SignatureKey = hex.EncodeToString(sum[:])
	return n
}

func TestReconciliationServiceImpl_Reconcile(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("UpdatesExistingRecord", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "200", "10000", "settlement")
		n.PaymentType = "qris"
		n.TransactionTime = "2025-06-01 12:00:00"

		stored := &transaction.Record{
			OrderID:   "A1",
			Amount:    10000,
			Status:    transaction.StatusPending,
			CreatedAt: time.Now().Add(-time.Minute),
		}

		mockRepo.On("GetByOrderID", ctx, "A1").Return(stored, nil).Once()
		mockRepo.On("Update", ctx, "A1", mock.MatchedBy(func(u transaction.StatusUpdate) bool {
			return u.Status == transaction.StatusSettlement &&
				u.PaymentType == "qris" &&
				u.TransactionTime == "2025-06-01 12:00:00" &&
				!u.UpdatedAt.IsZero()
		})).Return(nil).Once()

		outcome, err := svc.Reconcile(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DuplicateNotificationIsNoOp", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "200", "10000", "settlement")

		stored := &transaction.Record{
			OrderID: "A1",
			Amount:  10000,
			Status:  transaction.StatusSettlement,
		}

		mockRepo.On("GetByOrderID", ctx, "A1").Return(stored, nil).Once()

		outcome, err := svc.Reconcile(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, outcome)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("RedeliveryAfterUpdateIsDuplicate", func(t *testing.T) {
		// The worked example: A1 moves pending -> settlement, then the
		// identical notification arrives again and changes nothing.
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "200", "10000", "settlement")

		pending := &transaction.Record{OrderID: "A1", Amount: 10000, Status: transaction.StatusPending}
		settled := &transaction.Record{OrderID: "A1", Amount: 10000, Status: transaction.StatusSettlement}

		mockRepo.On("GetByOrderID", ctx, "A1").Return(pending, nil).Once()
		mockRepo.On("Update", ctx, "A1", mock.AnythingOfType("transaction.StatusUpdate")).Return(nil).Once()

		outcome, err := svc.Reconcile(ctx, n)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome)

		mockRepo.On("GetByOrderID", ctx, "A1").Return(settled, nil).Once()

		outcome, err = svc.Reconcile(ctx, n)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, outcome)

		mockRepo.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("FirstNotificationCreatesRecord", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("B2", "200", "5000", "capture")
		n.PaymentType = "credit_card"

		mockRepo.On("GetByOrderID", ctx, "B2").Return(nil, transaction.ErrRecordNotFound{OrderID: "B2"}).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(r *transaction.Record) bool {
			return r.OrderID == "B2" &&
				r.Status == transaction.StatusCapture &&
				r.PaymentType == "credit_card" &&
				!r.CreatedAt.IsZero()
		})).Return(nil).Once()

		outcome, err := svc.Reconcile(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, outcome)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidSignatureShortCircuits", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "200", "10000", "settlement")
		n.GrossAmount = "99999" // breaks the signature

		outcome, err := svc.Reconcile(ctx, n)

		assert.ErrorIs(t, err, ErrAuthenticationFailed)
		assert.Empty(t, outcome)
		mockRepo.AssertNotCalled(t, "GetByOrderID", mock.Anything, mock.Anything)
	})

	t.Run("UnrecognizedStatusRejectedBeforeStoreAccess", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "200", "10000", "chargeback")

		outcome, err := svc.Reconcile(ctx, n)

		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Empty(t, outcome)
		mockRepo.AssertNotCalled(t, "GetByOrderID", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PendingEchoOnPendingRecordIsDuplicate", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "201", "10000", "pending")

		stored := &transaction.Record{OrderID: "A1", Status: transaction.StatusPending}
		mockRepo.On("GetByOrderID", ctx, "A1").Return(stored, nil).Once()

		outcome, err := svc.Reconcile(ctx, n)

		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, outcome)
	})

	t.Run("ReadFailurePropagates", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "200", "10000", "settlement")
		storeErr := errors.New("store unavailable")

		mockRepo.On("GetByOrderID", ctx, "A1").Return(nil, storeErr).Once()

		_, err := svc.Reconcile(ctx, n)

		assert.ErrorIs(t, err, storeErr)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WriteFailurePropagates", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		svc := NewReconciliationService(logger, mockRepo, testServerKey)
		n := signedNotification("A1", "200", "10000", "settlement")
		writeErr := transaction.ErrPersistenceExhausted

		stored := &transaction.Record{OrderID: "A1", Status: transaction.StatusPending}
		mockRepo.On("GetByOrderID", ctx, "A1").Return(stored, nil).Once()
		mockRepo.On("Update", ctx, "A1", mock.AnythingOfType("transaction.StatusUpdate")).Return(writeErr).Once()

		_, err := svc.Reconcile(ctx, n)

		assert.ErrorIs(t, err, transaction.ErrPersistenceExhausted)
	})
}
