package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
	"github.com/midtrans-payment-reconciler/internal/service"
)

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Reconcile(ctx context.Context, n *transaction.Notification) (service.Outcome, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(service.Outcome), args.Error(1)
}

var _ service.ReconciliationService = (*MockReconciliationService)(nil)

func notificationBody() NotificationRequest {
	return NotificationRequest{
		OrderID:           "ORDER-201",
		StatusCode:        "200",
		GrossAmount:       "250000.00",
		SignatureKey:      "deadbeef",
		TransactionStatus: "settlement",
		PaymentType:       "qris",
		TransactionTime:   "2024-05-01 10:00:00",
	}
}

func TestCallbackHandler_Notify(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("AppliedNotificationAcknowledgedWithSuccess", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		mockService.On("Reconcile", mock.Anything, mock.MatchedBy(func(n *transaction.Notification) bool {
			return n.OrderID == "ORDER-201" && n.TransactionStatus == "settlement"
		})).Return(service.OutcomeUpdated, nil)

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		jsonBody, _ := json.Marshal(notificationBody())
		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		err := json.Unmarshal(rr.Body.Bytes(), &topLevelResponse)
		assert.NoError(t, err)
		require.NotNil(t, topLevelResponse.Data)

		var responseBody CallbackResponse
		dataBytes, marshalErr := json.Marshal(topLevelResponse.Data)
		require.NoError(t, marshalErr)
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))

		assert.Equal(t, "success", responseBody.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("CreatedOutcomeAcknowledgedWithSuccess", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		mockService.On("Reconcile", mock.Anything, mock.Anything).Return(service.OutcomeCreated, nil)

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		jsonBody, _ := json.Marshal(notificationBody())
		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"message":"success"`)
		mockService.AssertExpectations(t)
	})

	t.Run("DuplicateAcknowledgedAsIgnored", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		mockService.On("Reconcile", mock.Anything, mock.Anything).Return(service.OutcomeDuplicate, nil)

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		jsonBody, _ := json.Marshal(notificationBody())
		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		err := json.Unmarshal(rr.Body.Bytes(), &topLevelResponse)
		assert.NoError(t, err)

		var responseBody CallbackResponse
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))

		assert.Equal(t, "ignored duplicate callback", responseBody.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidSignatureForbidden", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		mockService.On("Reconcile", mock.Anything, mock.Anything).
			Return(service.Outcome(""), service.ErrAuthenticationFailed)

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		jsonBody, _ := json.Marshal(notificationBody())
		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)

		var response Response
		err := json.Unmarshal(rr.Body.Bytes(), &response)
		assert.NoError(t, err)
		require.NotNil(t, response.Error)
		assert.Equal(t, "FORBIDDEN", response.Error.Code)
		assert.Equal(t, "invalid signature", response.Error.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownStatusBadRequest", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		mockService.On("Reconcile", mock.Anything, mock.Anything).
			Return(service.Outcome(""), fmt.Errorf("%w: %w", service.ErrInvalidStatus, transaction.ErrUnknownStatus{Value: "teleported"}))

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		body := notificationBody()
		body.TransactionStatus = "teleported"
		jsonBody, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("PersistenceFailureInternalError", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		mockService.On("Reconcile", mock.Anything, mock.Anything).
			Return(service.Outcome(""), fmt.Errorf("update for order ORDER-201 failed: %w: %w", transaction.ErrPersistenceExhausted, errors.New("store offline")))

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		jsonBody, _ := json.Marshal(notificationBody())
		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBufferString(`{"order_id`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Reconcile")
	})

	t.Run("MissingSignedFieldsReachTheService", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewCallbackHandler(logger, mockService)

		mockService.On("Reconcile", mock.Anything, mock.MatchedBy(func(n *transaction.Notification) bool {
			return n.SignatureKey == ""
		})).Return(service.Outcome(""), service.ErrAuthenticationFailed)

		router := setupTestRouter()
		router.POST("/midtrans/callback", handler.Notify)

		body := notificationBody()
		body.SignatureKey = ""
		jsonBody, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/midtrans/callback", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockService.AssertExpectations(t)
	})
}
