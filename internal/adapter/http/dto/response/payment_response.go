package response

import (
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase"
)

type AuditRecordResponse struct {
	At      time.Time `json:"at"`
	Event   string    `json:"event"`
	Payload any       `json:"payload,omitempty"`
}

// InvoiceResponse is the public invoice view. TransactionRef and AuditTrail
// are only filled for the owner of the order.
type InvoiceResponse struct {
	ID                   string                `json:"id"`
	OrderID              string                `json:"order_id"`
	PricingPolicy        int                   `json:"pricing_policy"`
	PricingPolicyName    string                `json:"pricing_policy_name"`
	BaseAmount           string                `json:"base_amount"`
	TaxAmount            string                `json:"tax_amount"`
	ServiceChargeAmount  string                `json:"service_charge_amount"`
	FinalAmount          string                `json:"final_amount"`
	Currency             string                `json:"currency"`
	Gateway              string                `json:"gateway"`
	PaymentStatus        string                `json:"payment_status"`
	StatusDescription    string                `json:"status_description"`
	MaskedTransactionRef string                `json:"masked_transaction_ref"`
	TransactionRef       string                `json:"transaction_ref,omitempty"`
	AuditTrail           []AuditRecordResponse `json:"audit_trail,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

func FromInvoice(inv entities.Invoice, owned bool) InvoiceResponse {
	res := InvoiceResponse{
		ID:                   inv.ID,
		OrderID:              inv.OrderID,
		PricingPolicy:        int(inv.PricingPolicy),
		PricingPolicyName:    inv.PricingPolicy.Name(),
		BaseAmount:           inv.BaseAmount.StringFixed(2),
		TaxAmount:            inv.TaxAmount.StringFixed(2),
		ServiceChargeAmount:  inv.ServiceChargeAmount.StringFixed(2),
		FinalAmount:          inv.FinalAmount.StringFixed(2),
		Currency:             inv.Currency,
		Gateway:              inv.Gateway,
		PaymentStatus:        string(inv.Status),
		StatusDescription:    inv.Status.Description(),
		MaskedTransactionRef: inv.MaskedTransactionRef(),
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
	if owned {
		res.TransactionRef = inv.TransactionRef
		res.AuditTrail = make([]AuditRecordResponse, 0, len(inv.AuditTrail))
		for _, rec := range inv.AuditTrail {
			var payload any
			if len(rec.Payload) > 0 {
				payload = rec.Payload
			}
			res.AuditTrail = append(res.AuditTrail, AuditRecordResponse{At: rec.At, Event: rec.Event, Payload: payload})
		}
	}
	return res
}

type IntentResponse struct {
	Invoice    InvoiceResponse      `json:"invoice"`
	NextAction *entities.NextAction `json:"next_action,omitempty"`
}

func FromIntent(res usecase.IntentResult) IntentResponse {
	return IntentResponse{Invoice: FromInvoice(res.Invoice, true), NextAction: res.NextAction}
}

type VerifyResponse struct {
	TransactionRef string `json:"transaction_ref"`
	Status         string `json:"status"`
	InvoiceStatus  string `json:"invoice_status"`
	Applied        bool   `json:"applied"`
}

func FromVerify(out usecase.VerifyOutcome) VerifyResponse {
	return VerifyResponse{
		TransactionRef: out.TransactionRef,
		Status:         string(out.Status),
		InvoiceStatus:  string(out.InvoiceStatus),
		Applied:        out.Applied,
	}
}

type CallbackResponse struct {
	Result    string `json:"result"`
	Gateway   string `json:"gateway"`
	InvoiceID string `json:"invoice_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Applied   bool   `json:"applied"`
	OrderPaid bool   `json:"order_paid"`
}

func FromCallback(out usecase.CallbackOutcome) CallbackResponse {
	result := "accepted"
	if out.Ignored {
		result = "ignored"
	}
	return CallbackResponse{
		Result:    result,
		Gateway:   out.Gateway,
		InvoiceID: out.InvoiceID,
		Status:    string(out.Status),
		Applied:   out.Applied,
		OrderPaid: out.OrderPaid,
	}
}

type PaymentMethodResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TaxRate     string `json:"tax_rate"`
	ServiceRate string `json:"service_rate"`
}

func FromPricingPolicies(policies []entities.PricingPolicy) []PaymentMethodResponse {
	out := make([]PaymentMethodResponse, 0, len(policies))
	for _, p := range policies {
		out = append(out, PaymentMethodResponse{
			ID:          int(p),
			Name:        p.Name(),
			Description: p.Description(),
			TaxRate:     p.TaxRate().StringFixed(2),
			ServiceRate: p.ServiceRate().StringFixed(2),
		})
	}
	return out
}

type FeeResponse struct {
	Gateway   string `json:"gateway"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency,omitempty"`
	Fee       string `json:"fee"`
	NetAmount string `json:"net_amount"`
}

func FromFeeQuote(q usecase.FeeQuote) FeeResponse {
	return FeeResponse{
		Gateway:   q.Gateway,
		Amount:    q.Amount.StringFixed(2),
		Currency:  q.Currency,
		Fee:       q.Fee.StringFixed(2),
		NetAmount: q.NetAmount.StringFixed(2),
	}
}
