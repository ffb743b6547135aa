package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/usecase/interfaces"
)

const paymobTokenTTL = 50 * time.Minute

var instaPayPhone = regexp.MustCompile(`^(\+20|0)?1[0-9]{9}$`)

// paymobHMACFields is the documented field order of the transaction HMAC.
var paymobHMACFields = []string{
	"amount_cents",
	"created_at",
	"currency",
	"error_occured",
	"has_parent_transaction",
	"id",
	"integration_id",
	"is_3d_secure",
	"is_auth",
	"is_capture",
	"is_refunded",
	"is_standalone_payment",
	"is_voided",
	"order.id",
	"owner",
	"pending",
	"source_data.pan",
	"source_data.sub_type",
	"source_data.type",
	"success",
}

// PaymobGateway is the iframe variant. Card payments and InstaPay wallet
// payments differ only in the integration id of the payment key.
type PaymobGateway struct {
	cfg       config.PaymobConfig
	transport *transport

	mu          sync.Mutex
	authToken   string
	tokenExpiry time.Time
	now         func() time.Time
}

var _ interfaces.IPaymentGateway = (*PaymobGateway)(nil)

func NewPaymobGateway(cfg config.PaymobConfig, opts TransportOptions) *PaymobGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://accept.paymob.com/api"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Currency == "" {
		cfg.Currency = "EGP"
	}
	return &PaymobGateway{cfg: cfg, transport: newTransport("paymob", opts), now: time.Now}
}

func (g *PaymobGateway) GetGatewayName() string { return "paymob" }

func (g *PaymobGateway) Info() entities.GatewayInfo {
	methods := []string{string(entities.PaymentMethodCard)}
	if g.cfg.InstaPayIntegrationID != "" {
		methods = append(methods, string(entities.PaymentMethodInstaPay))
	}
	return entities.GatewayInfo{
		Name:                "paymob",
		DisplayName:         "Paymob",
		Flow:                string(entities.NextActionIframe),
		SupportedCurrencies: []string{strings.ToUpper(g.cfg.Currency)},
		Methods:             methods,
	}
}

type paymobOrder struct {
	ID              int64  `json:"id"`
	AmountCents     int64  `json:"amount_cents"`
	PaidAmountCents int64  `json:"paid_amount_cents"`
	Currency        string `json:"currency"`
	MerchantOrderID string `json:"merchant_order_id"`
	IsCancel        bool   `json:"is_cancel"`
	IsCanceled      bool   `json:"is_canceled"`
}

func (g *PaymobGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = strings.ToUpper(g.cfg.Currency)
	}
	if currency != strings.ToUpper(g.cfg.Currency) {
		return entities.PaymentResult{}, fmt.Errorf("%w: paymob does not accept %s", entities.ErrUnsupportedCurrency, currency)
	}

	integrationID := g.cfg.IntegrationID
	if req.Method == entities.PaymentMethodInstaPay {
		if g.cfg.InstaPayIntegrationID == "" {
			return entities.PaymentResult{}, fmt.Errorf("%w: instapay is not configured", entities.ErrPaymentRejected)
		}
		if !instaPayPhone.MatchString(strings.ReplaceAll(req.Customer.Phone, " ", "")) {
			return entities.PaymentResult{}, fmt.Errorf("%w: instapay requires an egyptian mobile number", entities.ErrPaymentRejected)
		}
		integrationID = g.cfg.InstaPayIntegrationID
	}

	token, err := g.token(ctx)
	if err != nil {
		return entities.PaymentResult{}, err
	}
	cents := toMinorUnits(req.Amount)

	orderBody, _ := json.Marshal(map[string]any{
		"auth_token":        token,
		"delivery_needed":   false,
		"amount_cents":      cents,
		"currency":          currency,
		"merchant_order_id": req.InvoiceID,
		"items":             []any{},
	})
	resp, err := g.post(ctx, "register_order", "/ecommerce/orders", orderBody)
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		if resp.StatusCode == http.StatusUnprocessableEntity && bytes.Contains(bytes.ToLower(resp.Body), []byte("duplicate")) {
			return entities.PaymentResult{}, fmt.Errorf("%w: paymob merchant_order_id %s already registered", entities.ErrDuplicateIntent, req.InvoiceID)
		}
		return entities.PaymentResult{}, classifyStatus("paymob", "register_order", resp)
	}
	var order paymobOrder
	if err := json.Unmarshal(resp.Body, &order); err != nil || order.ID == 0 {
		return entities.PaymentResult{}, fmt.Errorf("%w: paymob order without id", entities.ErrGatewayProtocolError)
	}

	keyBody, _ := json.Marshal(map[string]any{
		"auth_token":           token,
		"amount_cents":         cents,
		"expiration":           3600,
		"order_id":             order.ID,
		"billing_data":         paymobBillingData(req.Customer),
		"currency":             currency,
		"integration_id":       integrationID,
		"lock_order_when_paid": true,
	})
	resp, err = g.post(ctx, "payment_key", "/acceptance/payment_keys", keyBody)
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		return entities.PaymentResult{}, classifyStatus("paymob", "payment_key", resp)
	}
	var key struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body, &key); err != nil || key.Token == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: paymob payment key without token", entities.ErrGatewayProtocolError)
	}

	ref := strconv.FormatInt(order.ID, 10)
	iframe := fmt.Sprintf("%s/acceptance/iframes/%s?payment_token=%s", g.cfg.BaseURL, url.PathEscape(g.cfg.IframeID), url.QueryEscape(key.Token))
	log.Printf("[payment][gateway] paymob order registered invoice_id=%s ref=%s method=%s", req.InvoiceID, entities.MaskReference(ref), req.Method)

	return entities.PaymentResult{
		Success:        true,
		Status:         entities.InvoiceStatusPending,
		TransactionRef: ref,
		Amount:         req.Amount,
		Currency:       currency,
		NextAction:     &entities.NextAction{Type: entities.NextActionIframe, URL: iframe},
	}, nil
}

func paymobBillingData(c entities.Customer) map[string]string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "NA"
		}
		return s
	}
	return map[string]string{
		"first_name":      orNA(c.FirstName),
		"last_name":       orNA(c.LastName),
		"email":           orNA(c.Email),
		"phone_number":    orNA(c.Phone),
		"apartment":       "NA",
		"floor":           "NA",
		"street":          "NA",
		"building":        "NA",
		"shipping_method": "NA",
		"postal_code":     "NA",
		"city":            "NA",
		"country":         "EG",
		"state":           "NA",
	}
}

// VerifyCallback recomputes the HMAC-SHA512 over the transaction fields, from
// the JSON body for webhooks and from the flat query for redirects.
func (g *PaymobGateway) VerifyCallback(_ context.Context, req entities.CallbackRequest) error {
	if g.cfg.HMACSecret == "" {
		return fmt.Errorf("%w: paymob hmac secret not configured", entities.ErrInvalidSignature)
	}
	received := strings.ToLower(strings.TrimSpace(req.Query.Get("hmac")))
	if received == "" {
		return fmt.Errorf("%w: paymob callback without hmac", entities.ErrInvalidSignature)
	}

	var fields map[string]string
	if req.Kind == entities.CallbackWebhook {
		obj, err := paymobWebhookObject(req.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", entities.ErrInvalidSignature, err)
		}
		fields = flattenPaymob(obj)
	} else {
		fields = make(map[string]string, len(paymobHMACFields))
		for _, f := range paymobHMACFields {
			key := f
			if f == "order.id" {
				key = "order"
			}
			fields[f] = req.Query.Get(key)
		}
	}

	expected := paymobSignature(fields, g.cfg.HMACSecret)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		log.Printf("[payment][gateway] paymob hmac mismatch kind=%s payload_sha256=%s", req.Kind, payloadHash(req.Body))
		return fmt.Errorf("%w: paymob hmac mismatch", entities.ErrInvalidSignature)
	}
	return nil
}

func paymobSignature(fields map[string]string, secret string) string {
	var sb strings.Builder
	for _, f := range paymobHMACFields {
		sb.WriteString(fields[f])
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(sb.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

func paymobWebhookObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var envelope struct {
		Type string         `json:"type"`
		Obj  map[string]any `json:"obj"`
	}
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("paymob webhook body: %v", err)
	}
	if envelope.Obj == nil {
		return nil, fmt.Errorf("paymob webhook without obj")
	}
	return envelope.Obj, nil
}

// flattenPaymob renders the HMAC fields of a webhook object the way Paymob
// stringifies them: numbers verbatim, booleans lowercase.
func flattenPaymob(obj map[string]any) map[string]string {
	out := make(map[string]string, len(paymobHMACFields))
	for _, f := range paymobHMACFields {
		var v any = obj
		for _, part := range strings.Split(f, ".") {
			m, ok := v.(map[string]any)
			if !ok {
				v = nil
				break
			}
			v = m[part]
		}
		switch t := v.(type) {
		case nil:
			out[f] = ""
		case bool:
			out[f] = strconv.FormatBool(t)
		case json.Number:
			out[f] = t.String()
		case string:
			out[f] = t
		default:
			out[f] = fmt.Sprint(t)
		}
	}
	return out
}

func (g *PaymobGateway) HandleCallback(_ context.Context, req entities.CallbackRequest) (entities.PaymentResult, error) {
	var fields map[string]string
	payload := req.Body
	if req.Kind == entities.CallbackWebhook {
		obj, err := paymobWebhookObject(req.Body)
		if err != nil {
			return entities.PaymentResult{}, fmt.Errorf("%w: %v", entities.ErrGatewayProtocolError, err)
		}
		fields = flattenPaymob(obj)
	} else {
		fields = map[string]string{
			"order.id":     req.Query.Get("order"),
			"success":      req.Query.Get("success"),
			"pending":      req.Query.Get("pending"),
			"amount_cents": req.Query.Get("amount_cents"),
			"currency":     req.Query.Get("currency"),
		}
		payload, _ = json.Marshal(fields)
	}

	ref := fields["order.id"]
	if ref == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: paymob callback without order id", entities.ErrGatewayProtocolError)
	}

	success := fields["success"] == "true"
	pending := fields["pending"] == "true"
	status := entities.InvoiceStatusFailed
	switch {
	case success && !pending:
		status = entities.InvoiceStatusCompleted
	case pending:
		status = entities.InvoiceStatusPending
	}
	log.Printf("[payment][gateway] paymob callback kind=%s ref=%s status=%s", req.Kind, entities.MaskReference(ref), status)

	cents, _ := strconv.ParseInt(fields["amount_cents"], 10, 64)
	return entities.PaymentResult{
		Success:        status != entities.InvoiceStatusFailed,
		Status:         status,
		TransactionRef: ref,
		Amount:         fromMinorUnits(cents),
		Currency:       fields["currency"],
		Payload:        payload,
	}, nil
}

func (g *PaymobGateway) VerifyPayment(ctx context.Context, transactionRef string) (entities.PaymentResult, error) {
	if _, err := strconv.ParseInt(transactionRef, 10, 64); err != nil {
		return entities.PaymentResult{}, fmt.Errorf("%w: paymob order id %q", entities.ErrPaymentRejected, transactionRef)
	}
	token, err := g.token(ctx)
	if err != nil {
		return entities.PaymentResult{}, err
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	resp, err := g.transport.send(ctx, apiRequest{
		Operation: "get_order",
		Method:    http.MethodGet,
		URL:       g.cfg.BaseURL + "/ecommerce/orders/" + transactionRef,
		Header:    h,
	})
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if !resp.ok() {
		return entities.PaymentResult{}, classifyStatus("paymob", "get_order", resp)
	}
	var order paymobOrder
	if err := json.Unmarshal(resp.Body, &order); err != nil || order.ID == 0 {
		return entities.PaymentResult{}, fmt.Errorf("%w: paymob order body", entities.ErrGatewayProtocolError)
	}

	status := entities.InvoiceStatusPending
	switch {
	case order.PaidAmountCents > 0:
		status = entities.InvoiceStatusCompleted
	case order.IsCancel || order.IsCanceled:
		status = entities.InvoiceStatusCancelled
	}
	return entities.PaymentResult{
		Success:        status != entities.InvoiceStatusCancelled,
		Status:         status,
		TransactionRef: transactionRef,
		Amount:         fromMinorUnits(order.AmountCents),
		Currency:       order.Currency,
		Payload:        resp.Body,
	}, nil
}

func (g *PaymobGateway) post(ctx context.Context, op, path string, body []byte) (apiResponse, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return g.transport.send(ctx, apiRequest{Operation: op, Method: http.MethodPost, URL: g.cfg.BaseURL + path, Header: h, Body: body})
}

func (g *PaymobGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.authToken != "" && g.now().Before(g.tokenExpiry) {
		return g.authToken, nil
	}
	body, _ := json.Marshal(map[string]string{"api_key": g.cfg.APIKey})
	resp, err := g.post(ctx, "auth_token", "/auth/tokens", body)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", classifyStatus("paymob", "auth_token", resp)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil || out.Token == "" {
		return "", fmt.Errorf("%w: paymob auth without token", entities.ErrGatewayProtocolError)
	}
	g.authToken = out.Token
	g.tokenExpiry = g.now().Add(paymobTokenTTL)
	return g.authToken, nil
}
