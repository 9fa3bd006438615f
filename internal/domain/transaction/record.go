package transaction

import "time"

// Record is the durable transaction document, keyed by the gateway-assigned
// order ID. OrderID and Amount are set once at creation; notifications only
// touch the status-related fields.
type Record struct {
	OrderID         string    `json:"order_id" bson:"order_id"`
	Amount          int64     `json:"amount" bson:"amount"` // Stored in minor units
	Status          Status    `json:"status" bson:"status"`
	PaymentType     string    `json:"payment_type,omitempty" bson:"payment_type,omitempty"`
	TransactionTime string    `json:"transaction_time,omitempty" bson:"transaction_time,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// Notification is the untrusted callback payload reported by the payment
// gateway. It is never persisted verbatim; the reconciliation engine decides
// what, if anything, it changes.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	PaymentType       string `json:"payment_type,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
}

// StatusUpdate carries the fields overwritten when a notification moves a
// record to a new status. Empty optional fields overwrite the stored values,
// matching the notification's view of the transaction.
type StatusUpdate struct {
	Status          Status
	PaymentType     string
	TransactionTime string
	UpdatedAt       time.Time
}
