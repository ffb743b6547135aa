package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the payment lifecycle of a restaurant order.
//
// Domain notes:
//   - Orders are registered by the order-taking flow in status pending.
//   - Only the payment orchestrator moves an order out of pending, and only once.

type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusPaid          OrderStatus = "paid"
	OrderStatusPaymentFailed OrderStatus = "payment_failed"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusPaid, OrderStatusPaymentFailed, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the slice of a restaurant order the payment subsystem needs.
//
// Storage model (DynamoDB):
//   - PK: id
//
// ActiveInvoiceID names the only invoice allowed to settle the order. A newer
// intent supersedes the previous pending invoice.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	ActiveInvoiceID string          `json:"active_invoice_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a priced line used to compute an order total at intake.
type OrderItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}
