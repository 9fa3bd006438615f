// Package midtrans talks to the Midtrans payment gateway: it creates Snap
// checkout transactions and verifies the authenticity of inbound
// notifications signed with the merchant server key.
package midtrans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/midtrans-payment-reconciler/internal/config"
)

const snapTransactionsPath = "/snap/v1/transactions"

// Client calls the Snap API to create payment transactions
type Client struct {
	serverKey string
	baseURL   string
	client    *http.Client
	logger    *slog.Logger
}

// NewClient creates a Snap API client from the gateway configuration
func NewClient(logger *slog.Logger, cfg *config.MidtransConfig) *Client {
	return &Client{
		serverKey: cfg.ServerKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

// SnapRequest is the payload for creating a Snap transaction
type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
}

// TransactionDetails identifies the order being paid for
type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

// CustomerDetails carries the payer's identity for the checkout page
type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

// SnapResponse holds the client token the checkout frontend redeems
type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type snapErrorResponse struct {
	ErrorMessages []string `json:"error_messages"`
}

// CreateTransaction requests a Snap token for the order. The server key is
// sent as HTTP basic auth username per the Snap API contract.
func (c *Client) CreateTransaction(ctx context.Context, req *SnapRequest) (*SnapResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snap request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+snapTransactionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build snap request: %w", err)
	}
	httpReq.SetBasicAuth(c.serverKey, "")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("snap request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snap response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr snapErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && len(apiErr.ErrorMessages) > 0 {
			c.logger.Error("Snap transaction rejected",
				"order_id", req.TransactionDetails.OrderID,
				"status", resp.StatusCode,
				"messages", apiErr.ErrorMessages,
			)
			return nil, fmt.Errorf("snap transaction rejected (status %d): %s", resp.StatusCode, strings.Join(apiErr.ErrorMessages, "; "))
		}
		return nil, fmt.Errorf("snap transaction failed with status %d", resp.StatusCode)
	}

	var snapResp SnapResponse
	if err := json.Unmarshal(data, &snapResp); err != nil {
		return nil, fmt.Errorf("failed to decode snap response: %w", err)
	}
	if snapResp.Token == "" {
		return nil, fmt.Errorf("snap response missing token")
	}

	return &snapResp, nil
}
