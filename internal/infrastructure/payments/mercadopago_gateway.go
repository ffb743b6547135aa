package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"restaurant_payments/internal/domain/entities"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing mercadopago access token")

// mercadoPagoPayments is the part of the SDK payment client the gateway uses.
type mercadoPagoPayments interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoGateway creates Pix payments through the Mercado Pago SDK. The
// buyer pays on the ticket URL and the result arrives as a webhook.
type MercadoPagoGateway struct {
	cfg       appconfig.MercadoPagoConfig
	client    mercadoPagoPayments
	transport *transport
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(cfg appconfig.MercadoPagoConfig, opts TransportOptions) (*MercadoPagoGateway, error) {
	if cfg.AccessToken == "" {
		log.Printf("[payment][gateway] missing mercadopago access token")
		return nil, ErrMissingMercadoPagoAccessToken
	}
	sdkCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")
	return newMercadoPagoGateway(cfg, payment.NewClient(sdkCfg), opts), nil
}

func newMercadoPagoGateway(cfg appconfig.MercadoPagoConfig, client mercadoPagoPayments, opts TransportOptions) *MercadoPagoGateway {
	if cfg.Currency == "" {
		cfg.Currency = "BRL"
	}
	return &MercadoPagoGateway{cfg: cfg, client: client, transport: newTransport("mercadopago", opts)}
}

func (g *MercadoPagoGateway) GetGatewayName() string { return "mercadopago" }

func (g *MercadoPagoGateway) Info() entities.GatewayInfo {
	return entities.GatewayInfo{
		Name:                "mercadopago",
		DisplayName:         "Mercado Pago",
		Flow:                string(entities.NextActionRedirect),
		SupportedCurrencies: []string{strings.ToUpper(g.cfg.Currency)},
		Methods:             []string{"pix"},
	}
}

// mercadoPagoView holds the response fields read back from the marshalled SDK response.
type mercadoPagoView struct {
	ID                 json.Number            `json:"id"`
	Status             string                 `json:"status"`
	StatusDetail       string                 `json:"status_detail"`
	TransactionAmount  float64                `json:"transaction_amount"`
	CurrencyID         string                 `json:"currency_id"`
	ExternalReference  string                 `json:"external_reference"`
	PointOfInteraction mercadoPagoInteraction `json:"point_of_interaction"`
}

type mercadoPagoInteraction struct {
	TransactionData struct {
		TicketURL string `json:"ticket_url"`
		QRCode    string `json:"qr_code"`
	} `json:"transaction_data"`
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = strings.ToUpper(g.cfg.Currency)
	}
	if currency != strings.ToUpper(g.cfg.Currency) {
		return entities.PaymentResult{}, fmt.Errorf("%w: mercadopago does not accept %s", entities.ErrUnsupportedCurrency, currency)
	}

	email := req.Customer.Email
	if email == "" {
		email = g.cfg.PayerEmail
	}
	metadata := map[string]any{"invoice_id": req.InvoiceID, "order_id": req.OrderID}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	sdkReq := payment.Request{
		TransactionAmount: req.Amount.InexactFloat64(),
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: req.InvoiceID,
		NotificationURL:   g.cfg.NotificationURL,
		Payer: &payment.PayerRequest{
			Email:     email,
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
		},
		Metadata: metadata,
	}

	// Create is not retried: the SDK call carries no idempotency key.
	callCtx, cancel := g.transport.detach(ctx)
	defer cancel()
	log.Printf("[payment][gateway] mercadopago create start invoice_id=%s", req.InvoiceID)
	resp, err := g.client.Create(callCtx, sdkReq)
	if err != nil {
		log.Printf("[payment][gateway] sdk create failed invoice_id=%s err=%v", req.InvoiceID, err)
		return entities.PaymentResult{}, classifyMercadoPagoError("create", err)
	}

	view, raw, err := viewMercadoPago(resp)
	if err != nil {
		return entities.PaymentResult{}, err
	}
	if view.PointOfInteraction.TransactionData.TicketURL == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: mercadopago payment %s without ticket_url", entities.ErrGatewayProtocolError, view.ID)
	}
	log.Printf("[payment][gateway] create success provider_payment_id=%s provider_status=%s", view.ID, view.Status)

	res := g.result(view, raw)
	res.Success = res.Status != entities.InvoiceStatusFailed
	res.NextAction = &entities.NextAction{Type: entities.NextActionRedirect, URL: view.PointOfInteraction.TransactionData.TicketURL}
	return res, nil
}

// VerifyCallback checks the x-signature header against the manifest
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;". Returns carry no
// signature and are re-fetched through the API.
func (g *MercadoPagoGateway) VerifyCallback(_ context.Context, req entities.CallbackRequest) error {
	if req.Kind == entities.CallbackReturn {
		if _, err := strconv.Atoi(req.Query.Get("payment_id")); err != nil {
			return fmt.Errorf("%w: mercadopago return without payment_id", entities.ErrInvalidSignature)
		}
		return nil
	}
	if g.cfg.WebhookSecret == "" {
		return fmt.Errorf("%w: mercadopago webhook secret not configured", entities.ErrInvalidSignature)
	}

	var ts, v1 string
	for _, part := range strings.Split(req.Headers.Get("x-signature"), ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = v
		case "v1":
			v1 = v
		}
	}
	if ts == "" || v1 == "" {
		return fmt.Errorf("%w: malformed x-signature header", entities.ErrInvalidSignature)
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(mercadoPagoDataID(req)), req.Headers.Get("x-request-id"), ts)
	mac := hmac.New(sha256.New, []byte(g.cfg.WebhookSecret))
	mac.Write([]byte(manifest))
	if !hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(strings.ToLower(v1))) {
		log.Printf("[payment][gateway] mercadopago signature mismatch payload_sha256=%s", payloadHash(req.Body))
		return fmt.Errorf("%w: mercadopago signature mismatch", entities.ErrInvalidSignature)
	}
	return nil
}

func mercadoPagoDataID(req entities.CallbackRequest) string {
	if id := req.Query.Get("data.id"); id != "" {
		return id
	}
	var body struct {
		Data struct {
			ID json.Number `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(req.Body, &body)
	return body.Data.ID.String()
}

// HandleCallback never trusts the notification's status; the payment is
// always pulled by id.
func (g *MercadoPagoGateway) HandleCallback(ctx context.Context, req entities.CallbackRequest) (entities.PaymentResult, error) {
	id := req.Query.Get("payment_id")
	if req.Kind == entities.CallbackWebhook {
		id = mercadoPagoDataID(req)
	}
	if id == "" {
		return entities.PaymentResult{}, fmt.Errorf("%w: mercadopago callback without payment id", entities.ErrGatewayProtocolError)
	}
	return g.VerifyPayment(ctx, id)
}

func (g *MercadoPagoGateway) VerifyPayment(ctx context.Context, transactionRef string) (entities.PaymentResult, error) {
	id, err := strconv.Atoi(strings.TrimSpace(transactionRef))
	if err != nil {
		return entities.PaymentResult{}, fmt.Errorf("%w: mercadopago payment id %q", entities.ErrPaymentRejected, transactionRef)
	}

	var resp *payment.Response
	err = g.transport.retry(ctx, "get_payment", func(ctx context.Context) error {
		r, err := g.client.Get(ctx, id)
		if err != nil {
			return classifyMercadoPagoError("get", err)
		}
		resp = r
		return nil
	})
	if err != nil {
		return entities.PaymentResult{}, err
	}
	view, raw, err := viewMercadoPago(resp)
	if err != nil {
		return entities.PaymentResult{}, err
	}
	return g.result(view, raw), nil
}

func (g *MercadoPagoGateway) result(view mercadoPagoView, raw []byte) entities.PaymentResult {
	status := entities.InvoiceStatusPending
	switch view.Status {
	case "approved":
		status = entities.InvoiceStatusCompleted
	case "rejected":
		status = entities.InvoiceStatusFailed
	case "cancelled", "refunded", "charged_back":
		status = entities.InvoiceStatusCancelled
	}
	currency := view.CurrencyID
	if currency == "" {
		currency = strings.ToUpper(g.cfg.Currency)
	}
	return entities.PaymentResult{
		Success:        status == entities.InvoiceStatusCompleted || status == entities.InvoiceStatusPending,
		Status:         status,
		TransactionRef: view.ID.String(),
		Amount:         decimal.NewFromFloat(view.TransactionAmount).Round(2),
		Currency:       currency,
		Payload:        raw,
	}
}

func viewMercadoPago(resp *payment.Response) (mercadoPagoView, []byte, error) {
	if resp == nil {
		return mercadoPagoView{}, nil, fmt.Errorf("%w: empty mercadopago response", entities.ErrGatewayProtocolError)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return mercadoPagoView{}, nil, fmt.Errorf("%w: mercadopago response marshal: %v", entities.ErrGatewayProtocolError, err)
	}
	var view mercadoPagoView
	if err := json.Unmarshal(raw, &view); err != nil || view.ID.String() == "" || view.ID.String() == "0" {
		return mercadoPagoView{}, nil, fmt.Errorf("%w: mercadopago response without id", entities.ErrGatewayProtocolError)
	}
	return view, raw, nil
}

// classifyMercadoPagoError maps SDK errors by their rendered API status.
func classifyMercadoPagoError(op string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: mercadopago %s: %v", entities.ErrGatewayUnavailable, op, err)
	case strings.Contains(msg, `"status":4`) ||
		strings.Contains(msg, "bad_request") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "not_found"):
		return fmt.Errorf("%w: mercadopago %s: %v", entities.ErrPaymentRejected, op, err)
	default:
		return fmt.Errorf("%w: mercadopago %s: %v", entities.ErrGatewayUnavailable, op, err)
	}
}
