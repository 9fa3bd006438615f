package transaction

import (
	"context"
	"errors"
)

// Repository manages transaction record persistence in the document store
type Repository interface {
	GetByOrderID(ctx context.Context, orderID string) (*Record, error)
	Create(ctx context.Context, record *Record) error
	Update(ctx context.Context, orderID string, update StatusUpdate) error
}

// ErrPersistenceExhausted marks a store write that kept failing after every
// allowed retry attempt. The record is left untouched when it surfaces.
var ErrPersistenceExhausted = errors.New("persistence retries exhausted")

// ErrRecordNotFound indicates no record exists for the order
type ErrRecordNotFound struct {
	OrderID string
}

func (e ErrRecordNotFound) Error() string {
	return "transaction record not found: " + e.OrderID
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	// An empty target OrderID matches any ErrRecordNotFound
	if t.OrderID == "" {
		return true
	}
	return e.OrderID == t.OrderID
}

// ErrDuplicateRecord indicates a create for an order that already has a record
type ErrDuplicateRecord struct {
	OrderID string
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate transaction record: " + e.OrderID
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.OrderID == "" {
		return true
	}
	return e.OrderID == t.OrderID
}

// ErrUnknownStatus indicates a status value outside the recognized set
type ErrUnknownStatus struct {
	Value string
}

func (e ErrUnknownStatus) Error() string {
	return "unknown transaction status: " + e.Value
}
