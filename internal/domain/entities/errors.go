package entities

import "errors"

// Payment error taxonomy. Gateways, stores and usecases wrap these with
// fmt.Errorf("%w: ...") and the HTTP layer maps them with errors.Is.
var (
	ErrInvalidPolicy       = errors.New("invalid pricing policy")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrUnsupportedGateway  = errors.New("unsupported payment gateway")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrAlreadyPaid         = errors.New("order already paid")
	ErrOrderNotPayable     = errors.New("order is no longer payable")
	ErrInvoiceNotFound     = errors.New("invoice not found")

	// ErrGatewayUnavailable is the only retryable gateway failure.
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrPaymentRejected      = errors.New("payment rejected by gateway")
	ErrGatewayProtocolError = errors.New("unexpected gateway response")
	ErrDuplicateIntent      = errors.New("duplicate payment intent")

	ErrInvalidSignature = errors.New("invalid callback signature")
	ErrCaptureFailed    = errors.New("payment capture failed")
	ErrAmountMismatch   = errors.New("paid amount does not match invoice")
)
