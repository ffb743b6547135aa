package interfaces

import (
	"context"

	"restaurant_payments/internal/domain/entities"
)

// IOrderRepository persists the order slice the payment subsystem reads.
//
// Orders are written once at intake. Status and active invoice changes only go
// through IInvoiceRepository so they stay atomic with the invoice.

type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	// GetByID returns a zero-value Order when the id is unknown.
	GetByID(ctx context.Context, id string) (entities.Order, error)
}
