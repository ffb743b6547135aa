package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase/interfaces"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderGormRepository persists orders in MySQL or SQLite.
type OrderGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IOrderRepository = (*OrderGormRepository)(nil)

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	m := toOrderModel(o)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return entities.Order{}, err
	}
	return m.toEntity(), nil
}

func (r *OrderGormRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	var m orderModel
	res := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&m)
	if res.Error != nil {
		return entities.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		return entities.Order{}, nil
	}
	return m.toEntity(), nil
}

// InvoiceGormRepository persists invoices and their audit rows. State changes
// lock the order row with SELECT ... FOR UPDATE inside one transaction.
// SQLite ignores the locking clause and relies on its single connection.
type InvoiceGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IInvoiceRepository = (*InvoiceGormRepository)(nil)

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) ReserveInvoice(ctx context.Context, orderID string, build interfaces.InvoiceBuilder) (entities.Invoice, entities.Order, error) {
	var (
		inv   entities.Invoice
		order entities.Order
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, found, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !found {
			built, err := build(entities.Order{})
			if err == nil {
				err = fmt.Errorf("order %s disappeared while reserving invoice %s", orderID, built.ID)
			}
			return err
		}

		built, err := build(locked)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		built.CreatedAt, built.UpdatedAt = now, now

		if prevID := locked.ActiveInvoiceID; prevID != "" && prevID != built.ID {
			rec := entities.NewAuditRecord(entities.AuditSuperseded, jsonPayload(map[string]string{"superseded_by": built.ID}))
			applied, err := casInvoiceStatus(tx, prevID, entities.InvoiceStatusPending, entities.InvoiceStatusCancelled, rec, now)
			if err != nil {
				return err
			}
			if applied {
				log.Printf("[payment][repository] invoice superseded invoice_id=%s by=%s", prevID, built.ID)
			}
		}

		m := toInvoiceModel(built)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		res := tx.Model(&orderModel{}).
			Where("id = ? AND status = ?", orderID, string(entities.OrderStatusPending)).
			Updates(map[string]any{"active_invoice_id": built.ID, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return interfaces.ErrConcurrentUpdate
		}

		locked.ActiveInvoiceID = built.ID
		locked.UpdatedAt = now
		inv, order = built, locked
		return nil
	})
	if err != nil {
		return entities.Invoice{}, entities.Order{}, err
	}
	return inv, order, nil
}

func (r *InvoiceGormRepository) AttachTransaction(ctx context.Context, invoiceID, transactionRef string, rec entities.AuditRecord) (entities.Invoice, error) {
	var inv entities.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner invoiceModel
		res := tx.Select("id", "order_id").Where("id = ?", invoiceID).Limit(1).Find(&owner)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entities.ErrInvoiceNotFound
		}
		// a superseded or settled invoice must not receive a live intent
		order, found, err := lockOrder(tx, owner.OrderID)
		if err != nil {
			return err
		}
		if !found || order.Status != entities.OrderStatusPending || order.ActiveInvoiceID != invoiceID {
			return errNotApplied
		}

		now := time.Now().UTC()
		res = tx.Model(&invoiceModel{}).
			Where("id = ? AND transaction_ref IS NULL AND status = ?", invoiceID, string(entities.InvoiceStatusPending)).
			Updates(map[string]any{"transaction_ref": transactionRef, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotApplied
		}
		a := toAuditRecordModel(invoiceID, rec)
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		loaded, err := loadInvoice(tx, "id = ?", invoiceID)
		inv = loaded
		return err
	})
	if errors.Is(err, errNotApplied) {
		existing, gerr := r.GetByID(ctx, invoiceID)
		if gerr != nil {
			return entities.Invoice{}, gerr
		}
		if existing.ID == "" {
			return entities.Invoice{}, entities.ErrInvoiceNotFound
		}
		return existing, interfaces.ErrConcurrentUpdate
	}
	if err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	return loadInvoice(r.db.WithContext(ctx), "id = ?", id)
}

func (r *InvoiceGormRepository) GetByTransactionRef(ctx context.Context, transactionRef string) (entities.Invoice, error) {
	return loadInvoice(r.db.WithContext(ctx), "transaction_ref = ?", transactionRef)
}

func (r *InvoiceGormRepository) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]entities.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []invoiceModel
	err := r.db.WithContext(ctx).
		Preload("AuditRecords", orderedAudit).
		Where("status = ? AND created_at < ? AND transaction_ref IS NOT NULL", string(entities.InvoiceStatusPending), olderThan.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]entities.Invoice, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *InvoiceGormRepository) AppendAudit(ctx context.Context, invoiceID string, rec entities.AuditRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&invoiceModel{}).Where("id = ?", invoiceID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return entities.ErrInvoiceNotFound
		}
		a := toAuditRecordModel(invoiceID, rec)
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		return tx.Model(&invoiceModel{}).Where("id = ?", invoiceID).Update("updated_at", time.Now().UTC()).Error
	})
}

func (r *InvoiceGormRepository) TransitionStatus(ctx context.Context, inv entities.Invoice, next entities.InvoiceStatus, rec entities.AuditRecord) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, found, err := lockOrder(tx, inv.OrderID)
		if err != nil {
			return err
		}
		if !found || order.Status != entities.OrderStatusPending || order.ActiveInvoiceID != inv.ID {
			return errNotApplied
		}

		now := time.Now().UTC()
		applied, err := casInvoiceStatus(tx, inv.ID, inv.Status, next, rec, now)
		if err != nil {
			return err
		}
		if !applied {
			return errNotApplied
		}

		res := tx.Model(&orderModel{}).
			Where("id = ? AND status = ? AND active_invoice_id = ?", inv.OrderID, string(entities.OrderStatusPending), inv.ID).
			Updates(map[string]any{"status": string(next.OrderStatus()), "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotApplied
		}
		return nil
	})
	if errors.Is(err, errNotApplied) {
		log.Printf("[payment][repository] transition not applied invoice_id=%s from=%s to=%s", inv.ID, inv.Status, next)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func lockOrder(tx *gorm.DB, orderID string) (entities.Order, bool, error) {
	var m orderModel
	res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", orderID).Limit(1).Find(&m)
	if res.Error != nil {
		return entities.Order{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		return entities.Order{}, false, nil
	}
	return m.toEntity(), true, nil
}

// casInvoiceStatus moves one invoice from -> to and appends rec when the
// change applied.
func casInvoiceStatus(tx *gorm.DB, id string, from, to entities.InvoiceStatus, rec entities.AuditRecord, now time.Time) (bool, error) {
	res := tx.Model(&invoiceModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	a := toAuditRecordModel(id, rec)
	if err := tx.Create(&a).Error; err != nil {
		return false, err
	}
	return true, nil
}

func loadInvoice(db *gorm.DB, query string, args ...any) (entities.Invoice, error) {
	var m invoiceModel
	res := db.Preload("AuditRecords", orderedAudit).Where(query, args...).Limit(1).Find(&m)
	if res.Error != nil {
		return entities.Invoice{}, res.Error
	}
	if res.RowsAffected == 0 {
		return entities.Invoice{}, nil
	}
	return m.toEntity(), nil
}

func orderedAudit(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
