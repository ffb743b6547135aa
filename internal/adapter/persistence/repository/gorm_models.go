package repository

import (
	"encoding/json"
	"time"

	"restaurant_payments/internal/domain/entities"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderModel struct {
	ID              string          `gorm:"primaryKey;size:64"`
	UserID          string          `gorm:"size:64;index;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"size:32;index;not null"`
	ActiveInvoiceID string          `gorm:"size:64"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (orderModel) TableName() string { return "orders" }

type invoiceModel struct {
	ID                  string          `gorm:"primaryKey;size:64"`
	OrderID             string          `gorm:"size:64;index;not null"`
	PricingPolicy       int             `gorm:"not null"`
	BaseAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ServiceChargeAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency            string          `gorm:"size:8;not null"`
	Gateway             string          `gorm:"size:32;not null"`
	// NULL until the gateway answers; unique among non-null values.
	TransactionRef *string            `gorm:"size:191;uniqueIndex"`
	Status         string             `gorm:"size:32;index:idx_invoices_status_created,priority:1;not null"`
	AuditRecords   []auditRecordModel `gorm:"foreignKey:InvoiceID"`
	CreatedAt      time.Time          `gorm:"index:idx_invoices_status_created,priority:2"`
	UpdatedAt      time.Time
}

func (invoiceModel) TableName() string { return "invoices" }

// auditRecordModel is one row of the append-only audit trail. Rows are only
// ever inserted; the autoincrement id gives the order.
type auditRecordModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	InvoiceID string    `gorm:"size:64;index;not null"`
	At        time.Time `gorm:"not null"`
	Event     string    `gorm:"size:64;not null"`
	Payload   string    `gorm:"type:text"`
}

func (auditRecordModel) TableName() string { return "invoice_audit_records" }

// AutoMigrate creates or updates the payment tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderModel{}, &invoiceModel{}, &auditRecordModel{})
}

func toOrderModel(o entities.Order) orderModel {
	return orderModel{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ActiveInvoiceID: o.ActiveInvoiceID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (m orderModel) toEntity() entities.Order {
	return entities.Order{
		ID:              m.ID,
		UserID:          m.UserID,
		TotalAmount:     m.TotalAmount,
		Status:          entities.OrderStatus(m.Status),
		ActiveInvoiceID: m.ActiveInvoiceID,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func toInvoiceModel(inv entities.Invoice) invoiceModel {
	m := invoiceModel{
		ID:                  inv.ID,
		OrderID:             inv.OrderID,
		PricingPolicy:       int(inv.PricingPolicy),
		BaseAmount:          inv.BaseAmount,
		TaxAmount:           inv.TaxAmount,
		ServiceChargeAmount: inv.ServiceChargeAmount,
		FinalAmount:         inv.FinalAmount,
		Currency:            inv.Currency,
		Gateway:             inv.Gateway,
		Status:              string(inv.Status),
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	if inv.TransactionRef != "" {
		ref := inv.TransactionRef
		m.TransactionRef = &ref
	}
	for _, rec := range inv.AuditTrail {
		m.AuditRecords = append(m.AuditRecords, toAuditRecordModel(inv.ID, rec))
	}
	return m
}

func (m invoiceModel) toEntity() entities.Invoice {
	inv := entities.Invoice{
		ID:                  m.ID,
		OrderID:             m.OrderID,
		PricingPolicy:       entities.PricingPolicy(m.PricingPolicy),
		BaseAmount:          m.BaseAmount,
		TaxAmount:           m.TaxAmount,
		ServiceChargeAmount: m.ServiceChargeAmount,
		FinalAmount:         m.FinalAmount,
		Currency:            m.Currency,
		Gateway:             m.Gateway,
		Status:              entities.InvoiceStatus(m.Status),
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
	if m.TransactionRef != nil {
		inv.TransactionRef = *m.TransactionRef
	}
	for _, a := range m.AuditRecords {
		rec := entities.AuditRecord{At: a.At.UTC(), Event: a.Event}
		if a.Payload != "" {
			rec.Payload = json.RawMessage(a.Payload)
		}
		inv.AuditTrail = append(inv.AuditTrail, rec)
	}
	return inv
}

func toAuditRecordModel(invoiceID string, rec entities.AuditRecord) auditRecordModel {
	at := rec.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return auditRecordModel{InvoiceID: invoiceID, At: at, Event: rec.Event, Payload: string(rec.Payload)}
}
