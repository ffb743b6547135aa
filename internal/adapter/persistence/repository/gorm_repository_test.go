package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"restaurant_payments/internal/domain/entities"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/database"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepos(t *testing.T) (*OrderGormRepository, *InvoiceGormRepository) {
	t.Helper()
	db, err := database.ConnectGorm(appconfig.StoreConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "payments.db"),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewOrderGormRepository(db), NewInvoiceGormRepository(db)
}

func seedOrder(t *testing.T, orders *OrderGormRepository, id string) entities.Order {
	t.Helper()
	o, err := orders.Create(context.Background(), entities.Order{
		ID:          id,
		UserID:      "user-1",
		TotalAmount: decimal.RequireFromString("100.00"),
		Status:      entities.OrderStatusPending,
	})
	require.NoError(t, err)
	return o
}

func invoiceFor(id string) interfaces.InvoiceBuilder {
	return func(o entities.Order) (entities.Invoice, error) {
		if o.ID == "" {
			return entities.Invoice{}, entities.ErrInvoiceNotFound
		}
		return entities.Invoice{
			ID:            id,
			OrderID:       o.ID,
			PricingPolicy: entities.PricingFullService,
			BaseAmount:    o.TotalAmount,
			TaxAmount:     decimal.RequireFromString("14.00"),
			FinalAmount:   decimal.RequireFromString("114.00"),
			Currency:      "USD",
			Gateway:       "stripe",
			Status:        entities.InvoiceStatusPending,
			AuditTrail: []entities.AuditRecord{
				entities.NewAuditRecord(entities.AuditInvoiceCreated, nil),
			},
		}, nil
	}
}

func TestOrderGormRepository_CreateAndGet(t *testing.T) {
	orders, _ := newSQLiteRepos(t)
	ctx := context.Background()

	seedOrder(t, orders, "order-1")

	got, err := orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, entities.OrderStatusPending, got.Status)

	missing, err := orders.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)

	_, err = orders.Create(ctx, entities.Order{ID: "order-1", UserID: "u", Status: entities.OrderStatusPending})
	assert.Error(t, err)
}

func TestInvoiceGormRepository_ReserveAndSupersede(t *testing.T) {
	orders, invoices := newSQLiteRepos(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1")

	first, order, err := invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-1"))
	require.NoError(t, err)
	assert.Equal(t, "inv-1", first.ID)
	assert.Equal(t, "inv-1", order.ActiveInvoiceID)

	_, order, err = invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-2"))
	require.NoError(t, err)
	assert.Equal(t, "inv-2", order.ActiveInvoiceID)

	prev, err := invoices.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entities.InvoiceStatusCancelled, prev.Status)
	require.Len(t, prev.AuditTrail, 2)
	assert.Equal(t, entities.AuditInvoiceCreated, prev.AuditTrail[0].Event)
	assert.Equal(t, entities.AuditSuperseded, prev.AuditTrail[1].Event)

	stored, err := orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "inv-2", stored.ActiveInvoiceID)
}

func TestInvoiceGormRepository_ReserveMissingOrder(t *testing.T) {
	_, invoices := newSQLiteRepos(t)

	_, _, err := invoices.ReserveInvoice(context.Background(), "ghost", invoiceFor("inv-1"))
	assert.ErrorIs(t, err, entities.ErrInvoiceNotFound)

	got, err := invoices.GetByID(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Empty(t, got.ID)
}

func TestInvoiceGormRepository_ReserveBuilderErrorWritesNothing(t *testing.T) {
	orders, invoices := newSQLiteRepos(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1")

	boom := errors.New("already paid")
	_, _, err := invoices.ReserveInvoice(ctx, "order-1", func(entities.Order) (entities.Invoice, error) {
		return entities.Invoice{}, boom
	})
	assert.ErrorIs(t, err, boom)

	o, err := orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Empty(t, o.ActiveInvoiceID)
}

func TestInvoiceGormRepository_AttachTransactionOnce(t *testing.T) {
	orders, invoices := newSQLiteRepos(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1")
	_, _, err := invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-1"))
	require.NoError(t, err)

	inv, err := invoices.AttachTransaction(ctx, "inv-1", "pi_123", entities.NewAuditRecord(entities.AuditIntentCreated, []byte(`{"ref":"pi_123"}`)))
	require.NoError(t, err)
	assert.Equal(t, "pi_123", inv.TransactionRef)
	require.Len(t, inv.AuditTrail, 2)
	assert.JSONEq(t, `{"ref":"pi_123"}`, string(inv.AuditTrail[1].Payload))

	existing, err := invoices.AttachTransaction(ctx, "inv-1", "pi_456", entities.NewAuditRecord(entities.AuditIntentCreated, nil))
	assert.ErrorIs(t, err, interfaces.ErrConcurrentUpdate)
	assert.Equal(t, "pi_123", existing.TransactionRef)

	_, err = invoices.AttachTransaction(ctx, "ghost", "pi_789", entities.NewAuditRecord(entities.AuditIntentCreated, nil))
	assert.ErrorIs(t, err, entities.ErrInvoiceNotFound)

	byRef, err := invoices.GetByTransactionRef(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", byRef.ID)

	none, err := invoices.GetByTransactionRef(ctx, "pi_unknown")
	require.NoError(t, err)
	assert.Empty(t, none.ID)
}

func TestInvoiceGormRepository_AttachTransactionRefusedForInactiveInvoice(t *testing.T) {
	orders, invoices := newSQLiteRepos(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1")
	_, _, err := invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-1"))
	require.NoError(t, err)
	_, _, err = invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-2"))
	require.NoError(t, err)

	stale, err := invoices.AttachTransaction(ctx, "inv-1", "pi_stale", entities.NewAuditRecord(entities.AuditIntentCreated, nil))
	assert.ErrorIs(t, err, interfaces.ErrConcurrentUpdate)
	assert.Equal(t, entities.InvoiceStatusCancelled, stale.Status)
	assert.Empty(t, stale.TransactionRef)

	none, err := invoices.GetByTransactionRef(ctx, "pi_stale")
	require.NoError(t, err)
	assert.Empty(t, none.ID)

	t.Run("settled order", func(t *testing.T) {
		active, err := invoices.GetByID(ctx, "inv-2")
		require.NoError(t, err)
		applied, err := invoices.TransitionStatus(ctx, active, entities.InvoiceStatusFailed, entities.NewAuditRecord(entities.AuditStatusTransition, nil))
		require.NoError(t, err)
		require.True(t, applied)

		got, err := invoices.AttachTransaction(ctx, "inv-2", "pi_late", entities.NewAuditRecord(entities.AuditIntentCreated, nil))
		assert.ErrorIs(t, err, interfaces.ErrConcurrentUpdate)
		assert.Equal(t, entities.InvoiceStatusFailed, got.Status)
		assert.Len(t, got.AuditTrail, 2)
	})
}

func TestInvoiceGormRepository_TransitionStatus(t *testing.T) {
	orders, invoices := newSQLiteRepos(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1")
	inv, _, err := invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-1"))
	require.NoError(t, err)

	applied, err := invoices.TransitionStatus(ctx, inv, entities.InvoiceStatusCompleted, entities.NewAuditRecord(entities.AuditStatusTransition, nil))
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := invoices.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entities.InvoiceStatusCompleted, got.Status)
	o, err := orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPaid, o.Status)

	t.Run("replay from stale status is not applied", func(t *testing.T) {
		applied, err := invoices.TransitionStatus(ctx, inv, entities.InvoiceStatusFailed, entities.NewAuditRecord(entities.AuditStatusTransition, nil))
		require.NoError(t, err)
		assert.False(t, applied)

		got, err := invoices.GetByID(ctx, "inv-1")
		require.NoError(t, err)
		assert.Equal(t, entities.InvoiceStatusCompleted, got.Status)
		assert.Len(t, got.AuditTrail, 2)
	})
}

func TestInvoiceGormRepository_TransitionSupersededInvoice(t *testing.T) {
	orders, invoices := newSQLiteRepos(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1")
	first, _, err := invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-1"))
	require.NoError(t, err)
	_, _, err = invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-2"))
	require.NoError(t, err)

	// inv-1 is no longer the active invoice, so it cannot settle the order
	applied, err := invoices.TransitionStatus(ctx, first, entities.InvoiceStatusCompleted, entities.NewAuditRecord(entities.AuditStatusTransition, nil))
	require.NoError(t, err)
	assert.False(t, applied)

	o, err := orders.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPending, o.Status)
}

func TestInvoiceGormRepository_ListPendingAndAppendAudit(t *testing.T) {
	orders, invoices := newSQLiteRepos(t)
	ctx := context.Background()
	seedOrder(t, orders, "order-1")
	seedOrder(t, orders, "order-2")

	_, _, err := invoices.ReserveInvoice(ctx, "order-1", invoiceFor("inv-1"))
	require.NoError(t, err)
	_, err = invoices.AttachTransaction(ctx, "inv-1", "pi_1", entities.NewAuditRecord(entities.AuditIntentCreated, nil))
	require.NoError(t, err)
	// no transaction reference yet, not reconcilable
	_, _, err = invoices.ReserveInvoice(ctx, "order-2", invoiceFor("inv-2"))
	require.NoError(t, err)

	pending, err := invoices.ListPending(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "inv-1", pending[0].ID)

	none, err := invoices.ListPending(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, invoices.AppendAudit(ctx, "inv-1", entities.NewAuditRecord(entities.AuditVerificationPull, nil)))
	got, err := invoices.GetByID(ctx, "inv-1")
	require.NoError(t, err)
	require.Len(t, got.AuditTrail, 3)
	assert.Equal(t, entities.AuditVerificationPull, got.AuditTrail[2].Event)

	assert.ErrorIs(t, invoices.AppendAudit(ctx, "ghost", entities.NewAuditRecord(entities.AuditVerificationPull, nil)), entities.ErrInvoiceNotFound)
}
