package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/observability"
	"restaurant_payments/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CallbackOutcome summarises one processed gateway callback. Ignored is set
// for well-formed callbacks about invoices this service does not know.
type CallbackOutcome struct {
	Gateway        string                 `json:"gateway"`
	InvoiceID      string                 `json:"invoice_id,omitempty"`
	TransactionRef string                 `json:"-"`
	Status         entities.InvoiceStatus `json:"status,omitempty"`
	Applied        bool                   `json:"applied"`
	OrderPaid      bool                   `json:"order_paid"`
	Ignored        bool                   `json:"ignored"`
}

// ICallbackProcessorUseCase authenticates raw gateway callbacks and feeds the
// canonical result to the orchestrator.
type ICallbackProcessorUseCase interface {
	Handle(ctx context.Context, gatewayID string, req entities.CallbackRequest) (CallbackOutcome, error)
}

type CallbackProcessorUseCase struct {
	registry     interfaces.IGatewayRegistry
	invoices     interfaces.IInvoiceRepository
	orchestrator IPaymentOrchestratorUseCase
	cfg          appconfig.Config
	metrics      *observability.Metrics
	tracer       trace.Tracer
}

var _ ICallbackProcessorUseCase = (*CallbackProcessorUseCase)(nil)

func NewCallbackProcessorUseCase(
	registry interfaces.IGatewayRegistry,
	invoices interfaces.IInvoiceRepository,
	orchestrator IPaymentOrchestratorUseCase,
	cfg appconfig.Config,
	metrics *observability.Metrics,
) *CallbackProcessorUseCase {
	return &CallbackProcessorUseCase{
		registry:     registry,
		invoices:     invoices,
		orchestrator: orchestrator,
		cfg:          cfg,
		metrics:      metrics,
		tracer:       otel.Tracer(observability.TracerName),
	}
}

func (u *CallbackProcessorUseCase) Handle(ctx context.Context, gatewayID string, req entities.CallbackRequest) (CallbackOutcome, error) {
	ctx, span := u.tracer.Start(ctx, "callback.handle")
	defer span.End()

	gatewayID = strings.ToLower(strings.TrimSpace(gatewayID))
	span.SetAttributes(attribute.String("payment.gateway", gatewayID), attribute.String("payment.callback_kind", string(req.Kind)))
	log.Printf("[payment][callback] received gateway=%s kind=%s payload_sha256=%s", gatewayID, req.Kind, payloadDigest(req.Body))

	gw, err := u.registry.Resolve(gatewayID)
	if err != nil {
		return CallbackOutcome{}, err
	}

	var out CallbackOutcome
	switch req.Kind {
	case entities.CallbackCancel:
		out, err = u.handleCancel(ctx, gw, req)
	case entities.CallbackReturn, entities.CallbackWebhook:
		out, err = u.handleResult(ctx, gw, req)
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidCallback, req.Kind)
	}
	out.Gateway = gw.GetGatewayName()
	u.metrics.Callback(out.Gateway, callbackOutcomeLabel(out, err))
	if err != nil {
		fail(span, err)
	}
	return out, err
}

func (u *CallbackProcessorUseCase) handleResult(ctx context.Context, gw interfaces.IPaymentGateway, req entities.CallbackRequest) (CallbackOutcome, error) {
	name := gw.GetGatewayName()
	if req.Kind == entities.CallbackReturn {
		// our own signed redirect parameters, when the gateway passes them through
		if invoiceID := req.Query.Get("invoice_id"); invoiceID != "" {
			if !VerifyCallbackSignature(u.cfg.Callback.SigningKey, name, invoiceID, entities.CallbackReturn, req.Query.Get("sig")) {
				log.Printf("[payment][callback] bad redirect signature gateway=%s invoice_id=%s", name, invoiceID)
				return CallbackOutcome{}, entities.ErrInvalidSignature
			}
		}
	}

	gctx := interfaces.WithGatewayTimeout(ctx, u.budget(req.Kind))
	if err := gw.VerifyCallback(gctx, req); err != nil {
		log.Printf("[payment][callback] verification failed gateway=%s kind=%s payload_sha256=%s err=%v", name, req.Kind, payloadDigest(req.Body), err)
		return CallbackOutcome{}, err
	}
	res, err := gw.HandleCallback(gctx, req)
	if err != nil {
		log.Printf("[payment][callback] handle failed gateway=%s kind=%s err=%v", name, req.Kind, err)
		return CallbackOutcome{}, err
	}
	if res.TransactionRef == "" {
		return CallbackOutcome{}, fmt.Errorf("%w: no transaction reference", ErrInvalidCallback)
	}

	inv, err := u.orchestrator.GetInvoiceByTransactionRef(ctx, res.TransactionRef)
	if errors.Is(err, entities.ErrInvoiceNotFound) {
		log.Printf("[payment][callback] unknown invoice gateway=%s ref=%s", name, entities.MaskReference(res.TransactionRef))
		return CallbackOutcome{TransactionRef: res.TransactionRef, Status: res.Status, Ignored: true}, nil
	}
	if err != nil {
		return CallbackOutcome{}, err
	}
	if inv.Gateway != name {
		log.Printf("[payment][callback] gateway mismatch invoice_id=%s invoice_gateway=%s callback_gateway=%s", inv.ID, inv.Gateway, name)
		return CallbackOutcome{}, fmt.Errorf("%w: invoice belongs to another gateway", ErrInvalidCallback)
	}
	if err := checkAmount(inv, res); err != nil {
		log.Printf("[payment][callback] amount mismatch invoice_id=%s err=%v", inv.ID, err)
		return CallbackOutcome{}, err
	}

	return u.apply(ctx, res.TransactionRef, res)
}

func (u *CallbackProcessorUseCase) handleCancel(ctx context.Context, gw interfaces.IPaymentGateway, req entities.CallbackRequest) (CallbackOutcome, error) {
	name := gw.GetGatewayName()
	invoiceID := strings.TrimSpace(req.Query.Get("invoice_id"))
	if !VerifyCallbackSignature(u.cfg.Callback.SigningKey, name, invoiceID, entities.CallbackCancel, req.Query.Get("sig")) {
		log.Printf("[payment][callback] bad cancel signature gateway=%s invoice_id=%s", name, invoiceID)
		return CallbackOutcome{}, entities.ErrInvalidSignature
	}

	inv, err := u.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return CallbackOutcome{}, err
	}
	if inv.ID == "" {
		log.Printf("[payment][callback] cancel for unknown invoice invoice_id=%s", invoiceID)
		return CallbackOutcome{InvoiceID: invoiceID, Ignored: true}, nil
	}
	if inv.Gateway != name {
		return CallbackOutcome{}, fmt.Errorf("%w: invoice belongs to another gateway", ErrInvalidCallback)
	}
	if inv.TransactionRef == "" {
		// the gateway never accepted the intent, nothing to cancel there
		log.Printf("[payment][callback] cancel before intent created invoice_id=%s", inv.ID)
		return CallbackOutcome{InvoiceID: inv.ID, Status: inv.Status, Ignored: true}, nil
	}

	status := entities.InvoiceStatusCancelled
	pulled, err := gw.VerifyPayment(interfaces.WithGatewayTimeout(ctx, u.cfg.Gateways.Timeout), inv.TransactionRef)
	if err != nil {
		log.Printf("[payment][callback] status pull failed on cancel invoice_id=%s err=%v", inv.ID, err)
		return CallbackOutcome{}, err
	}
	if pulled.Status == entities.InvoiceStatusCompleted {
		if err := checkAmount(inv, pulled); err != nil {
			return CallbackOutcome{}, err
		}
		status = entities.InvoiceStatusCompleted
	}
	pulled.Status = status
	pulled.TransactionRef = inv.TransactionRef
	if len(pulled.Payload) == 0 {
		pulled.Payload = jsonPayload(map[string]string{"source": "cancel_redirect"})
	}
	return u.apply(ctx, inv.TransactionRef, pulled)
}

func (u *CallbackProcessorUseCase) apply(ctx context.Context, ref string, res entities.PaymentResult) (CallbackOutcome, error) {
	applied, err := u.orchestrator.ApplyResult(ctx, ref, string(res.Status), res.Payload)
	if errors.Is(err, entities.ErrInvoiceNotFound) {
		return CallbackOutcome{TransactionRef: ref, Status: res.Status, Ignored: true}, nil
	}
	if err != nil {
		return CallbackOutcome{}, err
	}
	return CallbackOutcome{
		InvoiceID:      applied.Invoice.ID,
		TransactionRef: ref,
		Status:         applied.Invoice.Status,
		Applied:        applied.Applied,
		OrderPaid:      applied.OrderPaid,
	}, nil
}

// budget is the gateway time budget: webhooks get the longer one.
func (u *CallbackProcessorUseCase) budget(kind entities.CallbackKind) time.Duration {
	if kind == entities.CallbackWebhook {
		return u.cfg.Gateways.WebhookTimeout
	}
	return u.cfg.Gateways.Timeout
}

func callbackOutcomeLabel(out CallbackOutcome, err error) string {
	switch {
	case err != nil && (errors.Is(err, entities.ErrInvalidSignature) || errors.Is(err, entities.ErrAmountMismatch)):
		return "rejected"
	case err != nil:
		return "error"
	case out.Ignored:
		return "ignored"
	case out.Applied:
		return "applied"
	}
	return "noop"
}

func payloadDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
