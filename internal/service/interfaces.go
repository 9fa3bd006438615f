package service

import (
	"context"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
	"github.com/midtrans-payment-reconciler/internal/gateway/midtrans"
)

// TokenProvider obtains a client checkout token from the payment gateway
type TokenProvider interface {
	CreateTransaction(ctx context.Context, req *midtrans.SnapRequest) (*midtrans.SnapResponse, error)
}

// IntakeService accepts new orders, obtains a gateway token, and persists
// the initial pending record
type IntakeService interface {
	// Create returns the Snap token for the order
	// Returns ErrInvalidPayload or ErrGateway on the respective failures
	Create(ctx context.Context, orderID string, amount int64, name, email string) (string, error)
}

// Outcome classifies the effect a notification had on stored state
type Outcome string

const (
	// OutcomeCreated means the notification created the record itself
	// because intake had not persisted one yet
	OutcomeCreated Outcome = "created"

	// OutcomeUpdated means the stored status changed
	OutcomeUpdated Outcome = "updated"

	// OutcomeDuplicate means the stored status already matched and nothing
	// was written
	OutcomeDuplicate Outcome = "duplicate"
)

// ReconciliationService applies verified gateway notifications to stored
// state, exactly once in effect, under duplicated and out-of-order delivery
type ReconciliationService interface {
	// Reconcile authenticates the notification and applies it
	// Returns ErrAuthenticationFailed or ErrInvalidStatus before any store
	// access, or a persistence error after the writer's retries are exhausted
	Reconcile(ctx context.Context, n *transaction.Notification) (Outcome, error)
}
