package payments

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

// Invoices are priced to the cent; zero-decimal currencies such as JPY are left out.
var payPalCurrencies = []string{"USD", "EUR", "GBP", "CAD", "AUD"}

// PayPalGateway is the redirect variant on the REST v1 payments API.
//
// The buyer approves on paypal.com and comes back to the success URL with
// paymentId and PayerID. Executing the payment with them is the capture and
// the authenticity check of the return.
type PayPalGateway struct {
	cfg       config.PayPalConfig
	baseURL   string
	transport *transport

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	now         func() time.Time
}

var _ interfaces.IPaymentGateway = (*PayPalGateway)(nil)

func NewPayPalGateway(cfg config.PayPalConfig, opts TransportOptions) *PayPalGateway {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &PayPalGateway{
		cfg:       cfg,
		baseURL:   cfg.APIBaseURL(),
		transport: newTransport("paypal", opts),
		now:       time.Now,
	}
}

func (g *PayPalGateway) GetGatewayName() string { return "paypal" }

func (g *PayPalGateway) Info() entities.GatewayInfo {
	return entities.GatewayInfo{
		Name:                "paypal",
		DisplayName:         "PayPal",
		Flow:                string(entities.NextActionRedirect),
		SupportedCurrencies: payPalCurrencies,
		Methods:             []string{"paypal"},
	}
}

type payPalAmount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type payPalPayment struct {
	ID           string `json:"id"`
	State        string `json:"state"`
	Intent       string `json:"intent"`
	Transactions []struct {
		Amount           payPalAmount `json:"amount"`
		RelatedResources []struct {
			Sale struct {
				ID    string `json:"id"`
				State string `json:"state"`
			} `json:"sale"`
		} `json:"related_resources"`
	} `json:"transactions"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

type payPalError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type payPalWebhookEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID            string       `json:"id"`
		ParentPayment string       `json:"parent_payment"`
		State         string       `json:"state"`
		Amount        payPalAmount `json:"amount"`
	} `json:"resource"`
}

func (g *PayPalGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = strings.ToUpper(g.cfg.Currency)
	}
	if !slices.Contains(payPalCurrencies, currency) {
		return entities.PaymentResult{}, fmt.Errorf("%w: paypal does not accept %s", entities.ErrUnsupportedCurrency, currency)
	}

	body := map[string]any{
		"intent": "sale",
		"payer":  map[string]any{"payment_method": "paypal"},
		"transactions": []map[string]any{{
			"amount":         payPalAmount{Total: req.Amount.StringFixed(2), Currency: currency},
			"description":    req.Description,
			"invoice_number": req.InvoiceID,
			"custom":         req.OrderID,
		}},
		"redirect_urls": map[string]string{
			"return_url": req.ReturnURL,
			"cancel_url": req.CancelURL,
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return entities.PaymentResult{}, fmt.Errorf("%w: %v", entities.ErrGatewayProtocolError, err)
	}

	resp, err := g.call(ctx, "create_payment", http.MethodPost, "/v1/payments/payment", raw, req.InvoiceID)
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		return entities.PaymentResult{}, g.classify("create_payment", resp)
	}

	var p payPalPayment
	if err := json.Unmarshal(resp.Body, &p); err != nil || p.ID == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: paypal payment without id", entities.ErrGatewayProtocolError)
	}
	approval := ""
	for _, l := range p.Links {
		if l.Rel == "approval_url" {
			approval = l.Href
		}
	}
	if approval == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: paypal payment %s without approval_url", entities.ErrGatewayProtocolError, p.ID)
	}
	log.Printf("[payment][gateway] paypal payment created invoice_id=%s ref=%s state=%s", req.InvoiceID, entities.MaskReference(p.ID), p.State)

	return entities.PaymentResult{
		Success:        true,
		Status:         entities.InvoiceStatusPending,
		TransactionRef: p.ID,
		Amount:         req.Amount,
		Currency:       currency,
		NextAction:     &entities.NextAction{Type: entities.NextActionRedirect, URL: approval},
		Payload:        resp.Body,
	}, nil
}

// VerifyCallback: returns must carry paymentId and PayerID; webhooks are
// checked by PayPal's verify-webhook-signature endpoint.
func (g *PayPalGateway) VerifyCallback(ctx context.Context, req entities.CallbackRequest) error {
	if req.Kind == entities.CallbackReturn {
		if req.Query.Get("paymentId") == "" || req.Query.Get("PayerID") == "" {
			return fmt.Errorf("%w: paypal return without paymentId or PayerID", entities.ErrInvalidSignature)
		}
		return nil
	}

	if g.cfg.WebhookID == "" {
		return fmt.Errorf("%w: paypal webhook id not configured", entities.ErrInvalidSignature)
	}
	if !json.Valid(req.Body) {
		return fmt.Errorf("%w: paypal webhook body is not json", entities.ErrInvalidSignature)
	}
	verify := map[string]any{
		"auth_algo":         req.Headers.Get("PAYPAL-AUTH-ALGO"),
		"cert_url":          req.Headers.Get("PAYPAL-CERT-URL"),
		"transmission_id":   req.Headers.Get("PAYPAL-TRANSMISSION-ID"),
		"transmission_sig":  req.Headers.Get("PAYPAL-TRANSMISSION-SIG"),
		"transmission_time": req.Headers.Get("PAYPAL-TRANSMISSION-TIME"),
		"webhook_id":        g.cfg.WebhookID,
		"webhook_event":     json.RawMessage(req.Body),
	}
	raw, _ := json.Marshal(verify)

	resp, err := g.call(ctx, "verify_webhook_signature", http.MethodPost, "/v1/notifications/verify-webhook-signature", raw, "")
	if err != nil {
		return err
	}
	var out struct {
		VerificationStatus string `json:"verification_status"`
	}
	if resp.ok() {
		_ = json.Unmarshal(resp.Body, &out)
	}
	if out.VerificationStatus != "SUCCESS" {
		log.Printf("[payment][gateway] paypal webhook rejected payload_sha256=%s status=%d verification=%s", payloadHash(req.Body), resp.StatusCode, out.VerificationStatus)
		return fmt.Errorf("%w: paypal webhook verification %q", entities.ErrInvalidSignature, out.VerificationStatus)
	}
	return nil
}

func (g *PayPalGateway) HandleCallback(ctx context.Context, req entities.CallbackRequest) (entities.PaymentResult, error) {
	if req.Kind == entities.CallbackReturn {
		return g.execute(ctx, req.Query.Get("paymentId"), req.Query.Get("PayerID"))
	}

	var ev payPalWebhookEvent
	if err := json.Unmarshal(req.Body, &ev); err != nil {
		return entities.PaymentResult{}, fmt.Errorf("%w: paypal webhook: %v", entities.ErrGatewayProtocolError, err)
	}
	ref := ev.Resource.ParentPayment
	if ref == "" {
		ref = ev.Resource.ID
	}
	if ref == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: paypal webhook %s without resource id", entities.ErrGatewayProtocolError, ev.EventType)
	}

	status := entities.InvoiceStatusPending
	switch ev.EventType {
	case "PAYMENT.SALE.COMPLETED":
		status = entities.InvoiceStatusCompleted
	case "PAYMENT.SALE.DENIED":
		status = entities.InvoiceStatusFailed
	}
	log.Printf("[payment][gateway] paypal webhook event=%s ref=%s status=%s", ev.EventType, entities.MaskReference(ref), status)

	amount, _ := decimal.NewFromString(ev.Resource.Amount.Total)
	return entities.PaymentResult{
		Success:        status != entities.InvoiceStatusFailed,
		Status:         status,
		TransactionRef: ref,
		Amount:         amount,
		Currency:       ev.Resource.Amount.Currency,
		Payload:        req.Body,
	}, nil
}

// execute redeems the buyer approval. PAYMENT_ALREADY_DONE means a previous
// redirect already executed it, so the current state is pulled instead.
func (g *PayPalGateway) execute(ctx context.Context, paymentID, payerID string) (entities.PaymentResult, error) {
	raw, _ := json.Marshal(map[string]string{"payer_id": payerID})
	resp, err := g.call(ctx, "execute_payment", http.MethodPost, "/v1/payments/payment/"+url.PathEscape(paymentID)+"/execute", raw, paymentID+"-execute")
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		var pe payPalError
		_ = json.Unmarshal(resp.Body, &pe)
		if pe.Name == "PAYMENT_ALREADY_DONE" {
			log.Printf("[payment][gateway] paypal payment already executed ref=%s", entities.MaskReference(paymentID))
			return g.VerifyPayment(ctx, paymentID)
		}
		return entities.PaymentResult{}, fmt.Errorf("%w: paypal execute returned HTTP %d %s", entities.ErrCaptureFailed, resp.StatusCode, pe.Name)
	}
	return g.parsePayment(resp.Body)
}

func (g *PayPalGateway) VerifyPayment(ctx context.Context, transactionRef string) (entities.PaymentResult, error) {
	if strings.TrimSpace(transactionRef) == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: empty paypal payment id", entities.ErrPaymentRejected)
	}
	resp, err := g.call(ctx, "get_payment", http.MethodGet, "/v1/payments/payment/"+url.PathEscape(transactionRef), nil, "")
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		return entities.PaymentResult{}, g.classify("get_payment", resp)
	}
	return g.parsePayment(resp.Body)
}

func (g *PayPalGateway) parsePayment(body []byte) (entities.PaymentResult, error) {
	var p payPalPayment
	if err := json.Unmarshal(body, &p); err != nil || p.ID == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: paypal payment body", entities.ErrGatewayProtocolError)
	}

	status := entities.InvoiceStatusPending
	switch strings.ToLower(p.State) {
	case "approved":
		status = entities.InvoiceStatusCompleted
	case "failed":
		status = entities.InvoiceStatusFailed
	case "canceled", "cancelled", "expired":
		status = entities.InvoiceStatusCancelled
	}

	res := entities.PaymentResult{
		Success:        status == entities.InvoiceStatusCompleted || status == entities.InvoiceStatusPending,
		Status:         status,
		TransactionRef: p.ID,
		Payload:        body,
	}
	if len(p.Transactions) > 0 {
		res.Amount, _ = decimal.NewFromString(p.Transactions[0].Amount.Total)
		res.Currency = p.Transactions[0].Amount.Currency
	}
	return res, nil
}

// call sends an authenticated JSON request. requestID becomes PayPal-Request-Id.
func (g *PayPalGateway) call(ctx context.Context, op, method, path string, body []byte, requestID string) (apiResponse, error) {
	token, err := g.token(ctx)
	if err != nil {
		return apiResponse{}, err
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	h.Set("Content-Type", "application/json")
	if requestID != "" {
		h.Set("PayPal-Request-Id", requestID)
	}
	return g.transport.send(ctx, apiRequest{Operation: op, Method: method, URL: g.baseURL + path, Header: h, Body: body})
}

// token returns the cached OAuth2 client-credentials token, refreshing it a
// minute before expiry.
func (g *PayPalGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && g.now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	h := http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Set("Accept", "application/json")
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(g.cfg.ClientID+":"+g.cfg.ClientSecret)))

	resp, err := g.transport.send(ctx, apiRequest{
		Operation: "oauth_token",
		Method:    http.MethodPost,
		URL:       g.baseURL + "/v1/oauth2/token",
		Header:    h,
		Body:      []byte("grant_type=client_credentials"),
	})
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", classifyStatus("paypal", "oauth_token", resp)
	}
	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil || out.AccessToken == "" {
		return "", fmt.Errorf("%w: paypal oauth response without access_token", entities.ErrGatewayProtocolError)
	}
	ttl := time.Duration(out.ExpiresIn)*time.Second - time.Minute
	if ttl <= 0 {
		ttl = time.Minute
	}
	g.accessToken = out.AccessToken
	g.tokenExpiry = g.now().Add(ttl)
	return g.accessToken, nil
}

func (g *PayPalGateway) classify(op string, resp apiResponse) error {
	var pe payPalError
	_ = json.Unmarshal(resp.Body, &pe)
	if pe.Name == "DUPLICATE_REQUEST_ID" || pe.Name == "DUPLICATE_TRANSACTION" {
		return fmt.Errorf("%w: paypal %s: %s", entities.ErrDuplicateIntent, op, pe.Name)
	}
	return classifyStatus("paypal", op, resp)
}
