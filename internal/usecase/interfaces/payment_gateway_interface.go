package interfaces

import (
	"context"
	"time"

	"restaurant_payments/internal/domain/entities"
)

type gatewayTimeoutKey struct{}

// WithGatewayTimeout sets the time budget gateway calls made with ctx may use.
// Gateways detach from ctx cancellation, so this budget is their only bound.
func WithGatewayTimeout(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, gatewayTimeoutKey{}, d)
}

// GatewayTimeout returns the budget set by WithGatewayTimeout, or def.
func GatewayTimeout(ctx context.Context, def time.Duration) time.Duration {
	if d, ok := ctx.Value(gatewayTimeoutKey{}).(time.Duration); ok && d > 0 {
		return d
	}
	return def
}

// IPaymentGateway abstracts an external payment provider.
//
// Every operation answers with the canonical PaymentResult so the
// orchestrator stays provider agnostic. Errors wrap the entities gateway
// sentinels (ErrGatewayUnavailable, ErrPaymentRejected, ...).
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error)
	// VerifyCallback checks authenticity before any payload field is trusted.
	VerifyCallback(ctx context.Context, req entities.CallbackRequest) error
	HandleCallback(ctx context.Context, req entities.CallbackRequest) (entities.PaymentResult, error)
	VerifyPayment(ctx context.Context, transactionRef string) (entities.PaymentResult, error)
	GetGatewayName() string
	Info() entities.GatewayInfo
}

// IGatewayRegistry resolves gateway clients by identifier. It is read-only
// after construction.
type IGatewayRegistry interface {
	Resolve(id string) (IPaymentGateway, error)
	Supported() []string
	Describe() []entities.GatewayInfo
}
