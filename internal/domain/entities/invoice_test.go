package entities

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalStatus(t *testing.T) {
	cases := map[string]InvoiceStatus{
		"completed": InvoiceStatusCompleted,
		"Succeeded": InvoiceStatusCompleted,
		"paid":      InvoiceStatusCompleted,
		"approved":  InvoiceStatusCompleted,
		"failed":    InvoiceStatusFailed,
		"declined":  InvoiceStatusFailed,
		"canceled":  InvoiceStatusCancelled,
		"cancelled": InvoiceStatusCancelled,
		"expired":   InvoiceStatusCancelled,
		"":          InvoiceStatusPending,
		"in_review": InvoiceStatusPending,
	}
	for tag, want := range cases {
		assert.Equal(t, want, CanonicalStatus(tag), "tag %q", tag)
	}
}

func TestInvoiceStatus_OrderStatus(t *testing.T) {
	assert.Equal(t, OrderStatusPaid, InvoiceStatusCompleted.OrderStatus())
	assert.Equal(t, OrderStatusPaymentFailed, InvoiceStatusFailed.OrderStatus())
	assert.Equal(t, OrderStatusCancelled, InvoiceStatusCancelled.OrderStatus())
	assert.Equal(t, OrderStatusPending, InvoiceStatusPending.OrderStatus())
	assert.False(t, InvoiceStatusPending.IsTerminal())
	assert.True(t, InvoiceStatusCancelled.IsTerminal())
}

func TestMaskReference(t *testing.T) {
	assert.Equal(t, "N/A", MaskReference(""))
	assert.Equal(t, "****", MaskReference("12345678"))
	assert.Equal(t, "pi_3****wxyz", MaskReference("pi_3Nabcdefwxyz"))

	inv := Invoice{TransactionRef: "PAYID-ABCDEFGH1234"}
	assert.Equal(t, "PAYI****1234", inv.MaskedTransactionRef())
}

func TestNewAuditRecord(t *testing.T) {
	rec := NewAuditRecord(AuditCallbackReceived, json.RawMessage(`{"id":"evt_1"}`))
	assert.Equal(t, AuditCallbackReceived, rec.Event)
	assert.JSONEq(t, `{"id":"evt_1"}`, string(rec.Payload))
	assert.False(t, rec.At.IsZero())

	raw := NewAuditRecord(AuditCallbackReceived, json.RawMessage("token=abc&x=1"))
	assert.JSONEq(t, `{"raw":"token=abc&x=1"}`, string(raw.Payload))
}

func TestParsePricingPolicy(t *testing.T) {
	p, err := ParsePricingPolicy("1")
	assert.NoError(t, err)
	assert.Equal(t, PricingFullService, p)

	p, err = ParsePricingPolicy("service_only")
	assert.NoError(t, err)
	assert.Equal(t, PricingServiceOnly, p)
	assert.Equal(t, "Service Only", p.Name())

	_, err = ParsePricingPolicy("3")
	assert.True(t, errors.Is(err, ErrInvalidPolicy))
}
