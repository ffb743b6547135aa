package interfaces

import (
	"context"
	"errors"
	"time"

	"restaurant_payments/internal/domain/entities"
)

var (
	// ErrConcurrentUpdate reports a lost compare-and-set.
	ErrConcurrentUpdate = errors.New("concurrent update")
	// ErrOrderLocked reports that the order lock could not be acquired in time.
	ErrOrderLocked = errors.New("order is locked by another request")
)

// InvoiceBuilder validates the locked order and returns the invoice to insert.
// It receives a zero-value Order when the order does not exist. Returning an
// error aborts the reservation without writing anything.
type InvoiceBuilder func(order entities.Order) (entities.Invoice, error)

// IInvoiceRepository abstracts invoice persistence and the atomic
// invoice+order state changes.
//
// Implementations:
//   - DynamoDB: order lease item + TransactWriteItems
//   - gorm (MySQL / SQLite): SELECT ... FOR UPDATE inside a transaction

type IInvoiceRepository interface {
	// ReserveInvoice locks the order, runs build, supersedes the previous
	// pending active invoice, inserts the new invoice and makes it the order's
	// active invoice. The lock is released before returning.
	ReserveInvoice(ctx context.Context, orderID string, build InvoiceBuilder) (entities.Invoice, entities.Order, error)
	// AttachTransaction sets the gateway reference once, and only while the
	// invoice is pending and still the active invoice of a pending order.
	// Otherwise it returns the stored invoice with ErrConcurrentUpdate.
	AttachTransaction(ctx context.Context, invoiceID, transactionRef string, rec entities.AuditRecord) (entities.Invoice, error)
	// GetByID and GetByTransactionRef return a zero-value Invoice when absent.
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	GetByTransactionRef(ctx context.Context, transactionRef string) (entities.Invoice, error)
	// ListPending returns pending invoices with a transaction reference created before olderThan.
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]entities.Invoice, error)
	AppendAudit(ctx context.Context, invoiceID string, rec entities.AuditRecord) error
	// TransitionStatus moves inv from inv.Status to next and its order from
	// pending to next.OrderStatus() in one atomic unit. The order must still
	// name inv as its active invoice. applied is false when either condition
	// no longer holds; nothing is written in that case.
	TransitionStatus(ctx context.Context, inv entities.Invoice, next entities.InvoiceStatus, rec entities.AuditRecord) (applied bool, err error)
}
