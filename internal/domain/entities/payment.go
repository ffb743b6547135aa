package entities

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodInstaPay PaymentMethod = "instapay"
)

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// PaymentRequest is what a gateway needs to open a payment intent.
// InvoiceID doubles as the idempotency key at every provider.
type PaymentRequest struct {
	InvoiceID   string
	OrderID     string
	CustomerID  string
	Amount      decimal.Decimal
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
	Customer    Customer
	Method      PaymentMethod
	Metadata    map[string]string
}

type NextActionType string

const (
	NextActionRedirect     NextActionType = "redirect"
	NextActionClientSecret NextActionType = "client_secret"
	NextActionIframe       NextActionType = "iframe"
)

// NextAction tells the client how to continue a payment with the provider.
type NextAction struct {
	Type           NextActionType `json:"type"`
	URL            string         `json:"url,omitempty"`
	ClientSecret   string         `json:"client_secret,omitempty"`
	PublishableKey string         `json:"publishable_key,omitempty"`
}

// PaymentResult is the canonical answer of every gateway operation.
type PaymentResult struct {
	Success        bool
	Status         InvoiceStatus
	TransactionRef string
	Amount         decimal.Decimal
	Currency       string
	NextAction     *NextAction
	Payload        json.RawMessage
}

type CallbackKind string

const (
	CallbackWebhook CallbackKind = "webhook"
	CallbackReturn  CallbackKind = "return"
	CallbackCancel  CallbackKind = "cancel"
)

// CallbackRequest is the raw provider request as received by the HTTP layer.
type CallbackRequest struct {
	Kind    CallbackKind
	Query   url.Values
	Headers http.Header
	Body    []byte
}

// GatewayInfo describes a registered gateway.
type GatewayInfo struct {
	Name                string   `json:"name"`
	DisplayName         string   `json:"display_name"`
	Flow                string   `json:"flow"`
	SupportedCurrencies []string `json:"supported_currencies"`
	Methods             []string `json:"methods"`
}
