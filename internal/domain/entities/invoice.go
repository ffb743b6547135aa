package entities

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment status of an invoice.
//
// pending -> completed | failed | cancelled. Terminal states never change.

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusCompleted InvoiceStatus = "completed"
	InvoiceStatusFailed    InvoiceStatus = "failed"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) IsTerminal() bool {
	switch s {
	case InvoiceStatusCompleted, InvoiceStatusFailed, InvoiceStatusCancelled:
		return true
	}
	return false
}

// OrderStatus returns the order status written together with a terminal invoice status.
func (s InvoiceStatus) OrderStatus() OrderStatus {
	switch s {
	case InvoiceStatusCompleted:
		return OrderStatusPaid
	case InvoiceStatusFailed:
		return OrderStatusPaymentFailed
	case InvoiceStatusCancelled:
		return OrderStatusCancelled
	}
	return OrderStatusPending
}

func (s InvoiceStatus) Description() string {
	switch s {
	case InvoiceStatusPending:
		return "Payment is being processed"
	case InvoiceStatusCompleted:
		return "Payment completed successfully"
	case InvoiceStatusFailed:
		return "Payment failed"
	case InvoiceStatusCancelled:
		return "Payment was cancelled"
	}
	return "Unknown status"
}

// CanonicalStatus maps a gateway or caller supplied status tag onto an invoice status.
// Anything unrecognised is pending, which callers treat as a no-op.
func CanonicalStatus(tag string) InvoiceStatus {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "completed", "complete", "paid", "succeeded", "approved":
		return InvoiceStatusCompleted
	case "failed", "failure", "declined", "denied", "rejected":
		return InvoiceStatusFailed
	case "cancelled", "canceled", "expired", "voided":
		return InvoiceStatusCancelled
	}
	return InvoiceStatusPending
}

const (
	AuditInvoiceCreated         = "invoice_created"
	AuditIntentCreated          = "intent_created"
	AuditIntentFailed           = "intent_failed"
	AuditCallbackReceived       = "callback_received"
	AuditStatusTransition       = "status_transition"
	AuditReplayNoop             = "replay_noop"
	AuditStateConflict          = "state_conflict"
	AuditLateCompletionConflict = "late_completion_conflict"
	AuditSuperseded             = "superseded"
	AuditVerificationPull       = "verification_pull"
)

// AuditRecord is one entry of an invoice's append-only audit trail.
type AuditRecord struct {
	At      time.Time       `json:"at"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewAuditRecord(event string, payload json.RawMessage) AuditRecord {
	if len(payload) > 0 && !json.Valid(payload) {
		b, _ := json.Marshal(map[string]string{"raw": string(payload)})
		payload = b
	}
	return AuditRecord{At: time.Now().UTC(), Event: event, Payload: payload}
}

// Invoice is the priced, gateway-bound payment record of one order.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI transaction_ref-index: transaction_ref
//   - GSI status-index: status + created_at (reconciliation sweep)
//
// The audit trail is only ever appended to; stores never rewrite it.
type Invoice struct {
	ID                  string          `json:"id"`
	OrderID             string          `json:"order_id"`
	PricingPolicy       PricingPolicy   `json:"pricing_policy"`
	BaseAmount          decimal.Decimal `json:"base_amount"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	ServiceChargeAmount decimal.Decimal `json:"service_charge_amount"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
	Currency            string          `json:"currency"`
	Gateway             string          `json:"gateway"`
	TransactionRef      string          `json:"transaction_ref,omitempty"`
	Status              InvoiceStatus   `json:"status"`
	AuditTrail          []AuditRecord   `json:"audit_trail,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// MaskedTransactionRef shows only the first and last four characters.
func (i Invoice) MaskedTransactionRef() string {
	return MaskReference(i.TransactionRef)
}

func MaskReference(ref string) string {
	if ref == "" {
		return "N/A"
	}
	if len(ref) <= 8 {
		return "****"
	}
	return ref[:4] + "****" + ref[len(ref)-4:]
}
