package handler

// CreateTransactionRequest represents a request to start a new payment
type CreateTransactionRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// TokenResponse carries the checkout token for a newly created payment
type TokenResponse struct {
	Token string `json:"token"`
}

// NotificationRequest represents a gateway status notification. No fields
// are marked required: a notification missing signed fields must reach the
// signature check and fail authentication rather than fail binding.
type NotificationRequest struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
}

// CallbackResponse acknowledges a processed notification
type CallbackResponse struct {
	Message string `json:"message"`
}
