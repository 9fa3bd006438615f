package service

import "errors"

// Sentinel errors returned by the services. Handlers match them with
// errors.Is to pick a response status; everything unmatched is an internal
// failure.
var (
	// ErrInvalidPayload indicates an intake request failing validation
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrAuthenticationFailed indicates a notification whose signature did
	// not verify against the server key
	ErrAuthenticationFailed = errors.New("invalid notification signature")

	// ErrInvalidStatus indicates a notification carrying a status outside
	// the recognized set
	ErrInvalidStatus = errors.New("invalid transaction status")

	// ErrGateway indicates a failed call to the payment gateway
	ErrGateway = errors.New("payment gateway request failed")
)
