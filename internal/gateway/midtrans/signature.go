package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
)

// VerifySignature checks a notification's authenticity against the merchant
// server key. The gateway signs order_id + status_code + gross_amount +
// server_key with SHA-512 and sends the lowercase hex digest as
// signature_key. A notification missing any signed field is rejected.
//
// The comparison is constant-time so the verifier does not leak how much of
// a forged digest matched.
func VerifySignature(n *transaction.Notification, serverKey string) bool {
	if n.OrderID == "" || n.StatusCode == "" || n.GrossAmount == "" || n.SignatureKey == "" {
		return false
	}

	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])

	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(n.SignatureKey))) == 1
}
