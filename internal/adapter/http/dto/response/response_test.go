package response

import (
	"encoding/json"
	"testing"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase"

	"github.com/shopspring/decimal"
)

func sampleInvoice() entities.Invoice {
	now := time.Now().UTC()
	return entities.Invoice{
		ID:                  "inv-1",
		OrderID:             "order-1",
		PricingPolicy:       entities.PricingFullService,
		BaseAmount:          decimal.RequireFromString("100"),
		TaxAmount:           decimal.RequireFromString("14"),
		ServiceChargeAmount: decimal.RequireFromString("20"),
		FinalAmount:         decimal.RequireFromString("134"),
		Currency:            "USD",
		Gateway:             "stripe",
		TransactionRef:      "pi_3NabcdefWXYZ",
		Status:              entities.InvoiceStatusPending,
		AuditTrail:          []entities.AuditRecord{{At: now, Event: entities.AuditInvoiceCreated, Payload: json.RawMessage(`{"a":1}`)}},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func TestFromInvoice_Owner(t *testing.T) {
	res := FromInvoice(sampleInvoice(), true)
	if res.FinalAmount != "134.00" || res.TaxAmount != "14.00" || res.PricingPolicyName != "Full Service Package" {
		t.Fatalf("unexpected amounts: %+v", res)
	}
	if res.MaskedTransactionRef != "pi_3****WXYZ" || res.TransactionRef != "pi_3NabcdefWXYZ" {
		t.Fatalf("unexpected refs: %q %q", res.MaskedTransactionRef, res.TransactionRef)
	}
	if len(res.AuditTrail) != 1 || res.AuditTrail[0].Event != entities.AuditInvoiceCreated {
		t.Fatalf("unexpected audit trail: %+v", res.AuditTrail)
	}
	if res.StatusDescription != "Payment is being processed" {
		t.Fatalf("unexpected description: %q", res.StatusDescription)
	}
}

func TestFromInvoice_NonOwnerHidesDetails(t *testing.T) {
	b, err := json.Marshal(FromInvoice(sampleInvoice(), false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body map[string]any
	_ = json.Unmarshal(b, &body)
	if _, ok := body["transaction_ref"]; ok {
		t.Fatalf("raw transaction ref leaked: %s", b)
	}
	if _, ok := body["audit_trail"]; ok {
		t.Fatalf("audit trail leaked: %s", b)
	}
	if body["masked_transaction_ref"] != "pi_3****WXYZ" {
		t.Fatalf("expected masked ref, got %v", body["masked_transaction_ref"])
	}
}

func TestFromCallback(t *testing.T) {
	if got := FromCallback(usecase.CallbackOutcome{Gateway: "paypal", Ignored: true}); got.Result != "ignored" {
		t.Fatalf("expected ignored, got %+v", got)
	}
	got := FromCallback(usecase.CallbackOutcome{Gateway: "paypal", InvoiceID: "inv-1", Status: entities.InvoiceStatusCompleted, Applied: true, OrderPaid: true})
	if got.Result != "accepted" || got.Status != "completed" || !got.OrderPaid {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestFromPricingPolicies(t *testing.T) {
	got := FromPricingPolicies(entities.PricingPolicies)
	if len(got) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].TaxRate != "0.14" || got[0].ServiceRate != "0.20" {
		t.Fatalf("unexpected full service: %+v", got[0])
	}
	if got[1].ID != 2 || got[1].TaxRate != "0.00" || got[1].Description != "15% service charge only" {
		t.Fatalf("unexpected service only: %+v", got[1])
	}
}

func TestFromOrderPaymentStatus(t *testing.T) {
	inv := sampleInvoice()
	st := usecase.OrderPaymentStatus{
		Order:         entities.Order{ID: "order-1", Status: entities.OrderStatusPending, TotalAmount: decimal.RequireFromString("100")},
		ActiveInvoice: &inv,
	}
	res := FromOrderPaymentStatus(st)
	if res.OrderStatus != "pending" || res.TotalAmount != "100.00" || res.ActiveInvoice == nil || res.ActiveInvoice.ID != "inv-1" {
		t.Fatalf("unexpected response: %+v", res)
	}

	res = FromOrderPaymentStatus(usecase.OrderPaymentStatus{Order: entities.Order{ID: "order-2"}})
	if res.ActiveInvoice != nil {
		t.Fatalf("expected no active invoice")
	}
}
