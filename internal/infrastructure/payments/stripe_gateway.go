package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

const defaultStripeWebhookTolerance = 5 * time.Minute

var stripeCurrencies = []string{"usd", "eur", "gbp"}

// StripeGateway is the inline variant: the browser confirms the PaymentIntent
// with the returned client secret.
type StripeGateway struct {
	cfg       config.StripeConfig
	transport *transport
	now       func() time.Time
}

var _ interfaces.IPaymentGateway = (*StripeGateway)(nil)

func NewStripeGateway(cfg config.StripeConfig, opts TransportOptions) *StripeGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stripe.com"
	}
	if cfg.WebhookTolerance <= 0 {
		cfg.WebhookTolerance = defaultStripeWebhookTolerance
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &StripeGateway{cfg: cfg, transport: newTransport("stripe", opts), now: time.Now}
}

func (g *StripeGateway) GetGatewayName() string { return "stripe" }

func (g *StripeGateway) Info() entities.GatewayInfo {
	return entities.GatewayInfo{
		Name:                "stripe",
		DisplayName:         "Stripe",
		Flow:                string(entities.NextActionClientSecret),
		SupportedCurrencies: stripeCurrencies,
		Methods:             []string{string(entities.PaymentMethodCard)},
	}
}

type stripePaymentIntent struct {
	ID             string            `json:"id"`
	Object         string            `json:"object"`
	Status         string            `json:"status"`
	ClientSecret   string            `json:"client_secret"`
	Amount         int64             `json:"amount"`
	AmountReceived int64             `json:"amount_received"`
	Currency       string            `json:"currency"`
	Metadata       map[string]string `json:"metadata"`
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object stripePaymentIntent `json:"object"`
	} `json:"data"`
}

type stripeErrorBody struct {
	Error struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		Message     string `json:"message"`
		DeclineCode string `json:"decline_code"`
	} `json:"error"`
}

func (g *StripeGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = strings.ToLower(g.cfg.Currency)
	}
	if !slices.Contains(stripeCurrencies, currency) {
		return entities.PaymentResult{}, fmt.Errorf("%w: stripe does not accept %s", entities.ErrUnsupportedCurrency, currency)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(toMinorUnits(req.Amount), 10))
	form.Set("currency", currency)
	form.Set("description", req.Description)
	form.Set("automatic_payment_methods[enabled]", "true")
	if req.Customer.Email != "" {
		form.Set("receipt_email", req.Customer.Email)
	}
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	resp, err := g.transport.send(ctx, apiRequest{
		Operation: "create_payment_intent",
		Method:    http.MethodPost,
		URL:       g.cfg.BaseURL + "/v1/payment_intents",
		Header:    g.headers(req.InvoiceID),
		Body:      []byte(form.Encode()),
	})
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		return entities.PaymentResult{}, g.classify("create_payment_intent", resp)
	}

	var pi stripePaymentIntent
	if err := json.Unmarshal(resp.Body, &pi); err != nil || pi.ID == "" || pi.ClientSecret == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: stripe payment intent missing id or client_secret", entities.ErrGatewayProtocolError)
	}
	log.Printf("[payment][gateway] stripe intent created invoice_id=%s ref=%s status=%s", req.InvoiceID, entities.MaskReference(pi.ID), pi.Status)

	return entities.PaymentResult{
		Success:        true,
		Status:         entities.InvoiceStatusPending,
		TransactionRef: pi.ID,
		Amount:         req.Amount,
		Currency:       strings.ToUpper(currency),
		NextAction: &entities.NextAction{
			Type:           entities.NextActionClientSecret,
			ClientSecret:   pi.ClientSecret,
			PublishableKey: g.cfg.PublishableKey,
		},
		Payload: resp.Body,
	}, nil
}

// VerifyCallback checks the Stripe-Signature header on webhooks. Return
// redirects only need to carry the payment_intent id, which is re-fetched.
func (g *StripeGateway) VerifyCallback(_ context.Context, req entities.CallbackRequest) error {
	if req.Kind == entities.CallbackReturn {
		if strings.TrimSpace(req.Query.Get("payment_intent")) == "" {
			return fmt.Errorf("%w: stripe return without payment_intent", entities.ErrInvalidSignature)
		}
		return nil
	}
	if err := verifyStripeSignature(req.Headers.Get("Stripe-Signature"), req.Body, g.cfg.WebhookSecret, g.cfg.WebhookTolerance, g.now()); err != nil {
		log.Printf("[payment][gateway] stripe webhook rejected payload_sha256=%s err=%v", payloadHash(req.Body), err)
		return err
	}
	return nil
}

func verifyStripeSignature(header string, body []byte, secret string, tolerance time.Duration, now time.Time) error {
	if secret == "" {
		return fmt.Errorf("%w: stripe webhook secret not configured", entities.ErrInvalidSignature)
	}
	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return fmt.Errorf("%w: malformed Stripe-Signature header", entities.ErrInvalidSignature)
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad Stripe-Signature timestamp", entities.ErrInvalidSignature)
	}
	if age := now.Sub(time.Unix(unix, 0)); age > tolerance || age < -tolerance {
		return fmt.Errorf("%w: Stripe-Signature timestamp outside tolerance", entities.ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := []byte(hex.EncodeToString(mac.Sum(nil)))
	for _, s := range sigs {
		if hmac.Equal(expected, []byte(s)) {
			return nil
		}
	}
	return fmt.Errorf("%w: stripe signature mismatch", entities.ErrInvalidSignature)
}

func (g *StripeGateway) HandleCallback(ctx context.Context, req entities.CallbackRequest) (entities.PaymentResult, error) {
	if req.Kind == entities.CallbackReturn {
		// redirect_status is user controlled; the intent itself is the source of truth.
		res, err := g.VerifyPayment(ctx, req.Query.Get("payment_intent"))
		if err != nil && !isUnavailable(err) {
			return entities.PaymentResult{}, fmt.Errorf("%w: %v", entities.ErrCaptureFailed, err)
		}
		return res, err
	}

	var ev stripeEvent
	if err := json.Unmarshal(req.Body, &ev); err != nil {
		return entities.PaymentResult{}, fmt.Errorf("%w: stripe event: %v", entities.ErrGatewayProtocolError, err)
	}
	pi := ev.Data.Object
	if pi.ID == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: stripe event %s without object id", entities.ErrGatewayProtocolError, ev.Type)
	}

	status := entities.InvoiceStatusPending
	switch ev.Type {
	case "payment_intent.succeeded":
		status = entities.InvoiceStatusCompleted
	case "payment_intent.payment_failed":
		status = entities.InvoiceStatusFailed
	case "payment_intent.canceled":
		status = entities.InvoiceStatusCancelled
	}
	log.Printf("[payment][gateway] stripe event type=%s ref=%s status=%s", ev.Type, entities.MaskReference(pi.ID), status)
	return g.result(pi, status, req.Body), nil
}

func (g *StripeGateway) VerifyPayment(ctx context.Context, transactionRef string) (entities.PaymentResult, error) {
	transactionRef = strings.TrimSpace(transactionRef)
	if transactionRef == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: empty payment intent id", entities.ErrPaymentRejected)
	}
	resp, err := g.transport.send(ctx, apiRequest{
		Operation: "retrieve_payment_intent",
		Method:    http.MethodGet,
		URL:       g.cfg.BaseURL + "/v1/payment_intents/" + url.PathEscape(transactionRef),
		Header:    g.headers(""),
	})
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		return entities.PaymentResult{}, g.classify("retrieve_payment_intent", resp)
	}
	var pi stripePaymentIntent
	if err := json.Unmarshal(resp.Body, &pi); err != nil || pi.ID == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: stripe payment intent body", entities.ErrGatewayProtocolError)
	}

	status := entities.InvoiceStatusPending
	switch pi.Status {
	case "succeeded":
		status = entities.InvoiceStatusCompleted
	case "canceled":
		status = entities.InvoiceStatusCancelled
	}
	return g.result(pi, status, resp.Body), nil
}

func (g *StripeGateway) result(pi stripePaymentIntent, status entities.InvoiceStatus, payload []byte) entities.PaymentResult {
	minor := pi.AmountReceived
	if minor == 0 {
		minor = pi.Amount
	}
	return entities.PaymentResult{
		Success:        status != entities.InvoiceStatusFailed && status != entities.InvoiceStatusCancelled,
		Status:         status,
		TransactionRef: pi.ID,
		Amount:         fromMinorUnits(minor),
		Currency:       strings.ToUpper(pi.Currency),
		Payload:        payload,
	}
}

func (g *StripeGateway) headers(idempotencyKey string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		h.Set("Idempotency-Key", idempotencyKey)
	}
	return h
}

func (g *StripeGateway) classify(op string, resp apiResponse) error {
	var body stripeErrorBody
	_ = json.Unmarshal(resp.Body, &body)
	if body.Error.Type == "idempotency_error" {
		return fmt.Errorf("%w: stripe %s: %s", entities.ErrDuplicateIntent, op, body.Error.Message)
	}
	return classifyStatus("stripe", op, resp)
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
