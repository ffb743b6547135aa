package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/pricing"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/observability"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidOrderID  = errors.New("invalid order id")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotOwned   = errors.New("order does not belong to the requester")
	ErrOrderLocked     = interfaces.ErrOrderLocked
	ErrInvalidCallback = errors.New("invalid callback request")
	// ErrIntentSuperseded is returned when a newer intent replaced the invoice
	// while the gateway call was in flight.
	ErrIntentSuperseded = errors.New("payment intent superseded by a newer request")
)

// GatewayData is the provider specific part of an intent request.
type GatewayData struct {
	Customer    entities.Customer
	Method      entities.PaymentMethod
	Currency    string
	Description string
}

type CreateIntentCommand struct {
	OrderID     string
	UserID      string
	Gateway     string
	Policy      entities.PricingPolicy
	GatewayData GatewayData
}

type IntentResult struct {
	Invoice    entities.Invoice
	NextAction *entities.NextAction
}

// ApplyOutcome reports what ApplyResult did. Conflict is set when a terminal
// result disagreed with an already terminal invoice.
type ApplyOutcome struct {
	Applied   bool
	OrderPaid bool
	Conflict  bool
	Invoice   entities.Invoice
}

type VerifyPaymentCommand struct {
	Gateway        string
	TransactionRef string
	UserID         string
	Admin          bool
}

type VerifyOutcome struct {
	TransactionRef string
	Status         entities.InvoiceStatus
	InvoiceStatus  entities.InvoiceStatus
	Applied        bool
}

type ReconcileReport struct {
	Checked      int `json:"checked"`
	Completed    int `json:"completed"`
	Failed       int `json:"failed"`
	Cancelled    int `json:"cancelled"`
	StillPending int `json:"still_pending"`
	Conflicts    int `json:"conflicts"`
	Errors       int `json:"errors"`
}

// InvoiceLookup carries an invoice and whether the requester owns its order.
type InvoiceLookup struct {
	Invoice entities.Invoice
	Owned   bool
}

type OrderPaymentStatus struct {
	Order         entities.Order
	ActiveInvoice *entities.Invoice
}

// IPaymentOrchestratorUseCase drives the invoice and order state machines.
//
//   - CreateIntent reserves a pending invoice under the order lock, then calls
//     the gateway with no lock held.
//   - ApplyResult is the only path to a terminal invoice status.
type IPaymentOrchestratorUseCase interface {
	CreateIntent(ctx context.Context, cmd CreateIntentCommand) (IntentResult, error)
	ApplyResult(ctx context.Context, transactionRef string, status string, payload json.RawMessage) (ApplyOutcome, error)
	VerifyPayment(ctx context.Context, cmd VerifyPaymentCommand) (VerifyOutcome, error)
	ReconcilePending(ctx context.Context, olderThan time.Duration, limit int) (ReconcileReport, error)
	GetInvoice(ctx context.Context, invoiceID, userID string) (InvoiceLookup, error)
	GetOrderPaymentStatus(ctx context.Context, orderID, userID string) (OrderPaymentStatus, error)
	GetInvoiceByTransactionRef(ctx context.Context, transactionRef string) (entities.Invoice, error)
}

type PaymentOrchestratorUseCase struct {
	orders   interfaces.IOrderRepository
	invoices interfaces.IInvoiceRepository
	registry interfaces.IGatewayRegistry
	cfg      appconfig.Config
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

var _ IPaymentOrchestratorUseCase = (*PaymentOrchestratorUseCase)(nil)

func NewPaymentOrchestratorUseCase(
	orders interfaces.IOrderRepository,
	invoices interfaces.IInvoiceRepository,
	registry interfaces.IGatewayRegistry,
	cfg appconfig.Config,
	metrics *observability.Metrics,
) *PaymentOrchestratorUseCase {
	return &PaymentOrchestratorUseCase{
		orders:   orders,
		invoices: invoices,
		registry: registry,
		cfg:      cfg,
		metrics:  metrics,
		tracer:   otel.Tracer(observability.TracerName),
	}
}

func (u *PaymentOrchestratorUseCase) CreateIntent(ctx context.Context, cmd CreateIntentCommand) (IntentResult, error) {
	ctx, span := u.tracer.Start(ctx, "orchestrator.create_intent")
	defer span.End()

	orderID := strings.TrimSpace(cmd.OrderID)
	gatewayID := strings.ToLower(strings.TrimSpace(cmd.Gateway))
	span.SetAttributes(attribute.String("payment.order_id", orderID), attribute.String("payment.gateway", gatewayID))
	log.Printf("[payment][orchestrator] create-intent start order_id=%s gateway=%s policy=%d", orderID, gatewayID, cmd.Policy)

	if orderID == "" {
		return IntentResult{}, ErrInvalidOrderID
	}
	if !cmd.Policy.IsValid() {
		return IntentResult{}, fmt.Errorf("%w: %d", entities.ErrInvalidPolicy, int(cmd.Policy))
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return IntentResult{}, fail(span, err)
	}
	if err := checkPayable(order, cmd.UserID); err != nil {
		log.Printf("[payment][orchestrator] order not payable order_id=%s status=%s err=%v", orderID, order.Status, err)
		return IntentResult{}, err
	}

	gw, err := u.registry.Resolve(gatewayID)
	if err != nil {
		return IntentResult{}, err
	}
	currency, err := u.currencyFor(gw.Info(), cmd.GatewayData.Currency)
	if err != nil {
		return IntentResult{}, err
	}

	inv, order, err := u.invoices.ReserveInvoice(ctx, orderID, func(locked entities.Order) (entities.Invoice, error) {
		// re-checked under the order lock
		if err := checkPayable(locked, cmd.UserID); err != nil {
			return entities.Invoice{}, err
		}
		b, err := pricing.Calculate(locked.TotalAmount, cmd.Policy)
		if err != nil {
			return entities.Invoice{}, err
		}
		id := uuid.NewString()
		return entities.Invoice{
			ID:                  id,
			OrderID:             locked.ID,
			PricingPolicy:       cmd.Policy,
			BaseAmount:          b.Base,
			TaxAmount:           b.Tax,
			ServiceChargeAmount: b.ServiceCharge,
			FinalAmount:         b.Final,
			Currency:            currency,
			Gateway:             gw.GetGatewayName(),
			Status:              entities.InvoiceStatusPending,
			AuditTrail: []entities.AuditRecord{
				entities.NewAuditRecord(entities.AuditInvoiceCreated, jsonPayload(map[string]any{
					"pricing_policy": int(cmd.Policy),
					"final_amount":   b.Final.StringFixed(2),
					"currency":       currency,
					"gateway":        gw.GetGatewayName(),
				})),
			},
		}, nil
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrConcurrentUpdate) {
			err = fmt.Errorf("%w: %v", ErrOrderLocked, err)
		}
		log.Printf("[payment][orchestrator] reserve invoice failed order_id=%s err=%v", orderID, err)
		return IntentResult{}, fail(span, err)
	}
	span.SetAttributes(attribute.String("payment.invoice_id", inv.ID))
	log.Printf("[payment][orchestrator] invoice reserved invoice_id=%s order_id=%s final_amount=%s currency=%s", inv.ID, orderID, inv.FinalAmount.StringFixed(2), currency)

	description := cmd.GatewayData.Description
	if description == "" {
		description = fmt.Sprintf("Restaurant Order #%s Payment", order.ID)
	}
	req := entities.PaymentRequest{
		InvoiceID:   inv.ID,
		OrderID:     order.ID,
		CustomerID:  cmd.UserID,
		Amount:      inv.FinalAmount,
		Currency:    currency,
		Description: description,
		ReturnURL:   callbackURL(u.cfg.Server.PublicBaseURL, u.cfg.Callback.SigningKey, inv.Gateway, inv.ID, entities.CallbackReturn),
		CancelURL:   callbackURL(u.cfg.Server.PublicBaseURL, u.cfg.Callback.SigningKey, inv.Gateway, inv.ID, entities.CallbackCancel),
		Customer:    cmd.GatewayData.Customer,
		Method:      cmd.GatewayData.Method,
		Metadata: map[string]string{
			"order_id":    order.ID,
			"invoice_id":  inv.ID,
			"customer_id": cmd.UserID,
		},
	}

	res, err := gw.CreatePayment(interfaces.WithGatewayTimeout(ctx, u.cfg.Gateways.Timeout), req)
	if err == nil && res.TransactionRef == "" {
		err = fmt.Errorf("%w: no transaction reference", entities.ErrGatewayProtocolError)
	}
	if err != nil {
		log.Printf("[payment][orchestrator] create payment failed invoice_id=%s gateway=%s err=%v", inv.ID, inv.Gateway, err)
		rec := entities.NewAuditRecord(entities.AuditIntentFailed, jsonPayload(map[string]string{"error": err.Error()}))
		if aerr := u.invoices.AppendAudit(context.WithoutCancel(ctx), inv.ID, rec); aerr != nil {
			log.Printf("[payment][orchestrator] audit append failed invoice_id=%s err=%v", inv.ID, aerr)
		}
		u.metrics.Intent(inv.Gateway, "failed")
		return IntentResult{}, fail(span, err)
	}

	rec := entities.NewAuditRecord(entities.AuditIntentCreated, intentPayload(res))
	attached, err := u.invoices.AttachTransaction(context.WithoutCancel(ctx), inv.ID, res.TransactionRef, rec)
	if errors.Is(err, interfaces.ErrConcurrentUpdate) || (err == nil && attached.Status != entities.InvoiceStatusPending) {
		return IntentResult{}, fail(span, u.abandonIntent(context.WithoutCancel(ctx), inv, res.TransactionRef))
	}
	if err != nil {
		log.Printf("[payment][orchestrator] attach transaction failed invoice_id=%s err=%v", inv.ID, err)
		return IntentResult{}, fail(span, err)
	}

	u.metrics.Intent(inv.Gateway, "created")
	log.Printf("[payment][orchestrator] create-intent done invoice_id=%s ref=%s", inv.ID, entities.MaskReference(res.TransactionRef))
	return IntentResult{Invoice: attached, NextAction: res.NextAction}, nil
}

// abandonIntent handles a gateway intent whose invoice stopped being payable
// before the reference could be stored. The next action is never handed out.
func (u *PaymentOrchestratorUseCase) abandonIntent(ctx context.Context, inv entities.Invoice, ref string) error {
	log.Printf("[payment][orchestrator] intent superseded invoice_id=%s order_id=%s ref=%s", inv.ID, inv.OrderID, entities.MaskReference(ref))
	u.metrics.Intent(inv.Gateway, "superseded")
	rec := entities.NewAuditRecord(entities.AuditIntentFailed, jsonPayload(map[string]string{
		"reason":          "superseded",
		"transaction_ref": ref,
	}))
	if err := u.invoices.AppendAudit(ctx, inv.ID, rec); err != nil {
		log.Printf("[payment][orchestrator] audit append failed invoice_id=%s err=%v", inv.ID, err)
	}

	order, err := u.orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return err
	}
	if order.Status == entities.OrderStatusPaid {
		return entities.ErrAlreadyPaid
	}
	return fmt.Errorf("%w: invoice %s", ErrIntentSuperseded, inv.ID)
}

func (u *PaymentOrchestratorUseCase) ApplyResult(ctx context.Context, transactionRef string, status string, payload json.RawMessage) (ApplyOutcome, error) {
	ctx, span := u.tracer.Start(ctx, "orchestrator.apply_result")
	defer span.End()

	transactionRef = strings.TrimSpace(transactionRef)
	if transactionRef == "" {
		return ApplyOutcome{}, ErrInvalidCallback
	}
	inv, err := u.invoices.GetByTransactionRef(ctx, transactionRef)
	if err != nil {
		return ApplyOutcome{}, fail(span, err)
	}
	if inv.ID == "" {
		log.Printf("[payment][orchestrator] no invoice for ref=%s", entities.MaskReference(transactionRef))
		return ApplyOutcome{}, entities.ErrInvoiceNotFound
	}
	span.SetAttributes(attribute.String("payment.invoice_id", inv.ID))
	return u.apply(ctx, inv, entities.CanonicalStatus(status), payload)
}

// apply moves inv to target once. A lost compare-and-set re-reads the
// invoice a single time and classifies the result.
func (u *PaymentOrchestratorUseCase) apply(ctx context.Context, inv entities.Invoice, target entities.InvoiceStatus, payload json.RawMessage) (ApplyOutcome, error) {
	if !target.IsTerminal() {
		rec := entities.NewAuditRecord(entities.AuditCallbackReceived, payload)
		if err := u.invoices.AppendAudit(ctx, inv.ID, rec); err != nil {
			return ApplyOutcome{}, err
		}
		return ApplyOutcome{Invoice: inv, OrderPaid: inv.Status == entities.InvoiceStatusCompleted}, nil
	}
	if inv.Status.IsTerminal() {
		return u.settled(ctx, inv, target, payload)
	}

	rec := entities.NewAuditRecord(entities.AuditStatusTransition, jsonPayload(map[string]any{
		"from":    inv.Status,
		"to":      target,
		"gateway": json.RawMessage(orEmptyObject(payload)),
	}))
	applied, err := u.invoices.TransitionStatus(ctx, inv, target, rec)
	if err != nil {
		log.Printf("[payment][orchestrator] transition failed invoice_id=%s to=%s err=%v", inv.ID, target, err)
		return ApplyOutcome{}, err
	}
	if applied {
		inv.Status = target
		inv.AuditTrail = append(inv.AuditTrail, rec)
		u.metrics.Transition(string(target))
		log.Printf("[payment][orchestrator] invoice transitioned invoice_id=%s order_id=%s to=%s", inv.ID, inv.OrderID, target)
		return ApplyOutcome{Applied: true, OrderPaid: target == entities.InvoiceStatusCompleted, Invoice: inv}, nil
	}

	fresh, err := u.invoices.GetByID(ctx, inv.ID)
	if err != nil {
		return ApplyOutcome{}, err
	}
	if fresh.Status.IsTerminal() {
		return u.settled(ctx, fresh, target, payload)
	}

	// still pending, but the order no longer accepts this invoice
	log.Printf("[payment][orchestrator] state conflict invoice_id=%s order_id=%s requested=%s reason=order-not-pending-or-superseded", inv.ID, inv.OrderID, target)
	conflict := entities.NewAuditRecord(entities.AuditStateConflict, jsonPayload(map[string]any{
		"requested": target,
		"reason":    "order not pending or invoice not active",
	}))
	if err := u.invoices.AppendAudit(ctx, inv.ID, conflict); err != nil {
		return ApplyOutcome{}, err
	}
	return ApplyOutcome{Conflict: true, Invoice: fresh}, nil
}

// settled handles a terminal result for an invoice that is already terminal.
func (u *PaymentOrchestratorUseCase) settled(ctx context.Context, inv entities.Invoice, target entities.InvoiceStatus, payload json.RawMessage) (ApplyOutcome, error) {
	if inv.Status == target {
		rec := entities.NewAuditRecord(entities.AuditReplayNoop, payload)
		if err := u.invoices.AppendAudit(ctx, inv.ID, rec); err != nil {
			return ApplyOutcome{}, err
		}
		log.Printf("[payment][orchestrator] replay ignored invoice_id=%s status=%s", inv.ID, inv.Status)
		return ApplyOutcome{Invoice: inv, OrderPaid: inv.Status == entities.InvoiceStatusCompleted}, nil
	}

	event := entities.AuditStateConflict
	if target == entities.InvoiceStatusCompleted {
		event = entities.AuditLateCompletionConflict
	}
	rec := entities.NewAuditRecord(event, jsonPayload(map[string]any{
		"current":   inv.Status,
		"requested": target,
		"gateway":   json.RawMessage(orEmptyObject(payload)),
	}))
	if err := u.invoices.AppendAudit(ctx, inv.ID, rec); err != nil {
		return ApplyOutcome{}, err
	}
	log.Printf("[payment][orchestrator] %s invoice_id=%s current=%s requested=%s action=manual-follow-up", event, inv.ID, inv.Status, target)
	return ApplyOutcome{Conflict: true, Invoice: inv, OrderPaid: inv.Status == entities.InvoiceStatusCompleted}, nil
}

func (u *PaymentOrchestratorUseCase) VerifyPayment(ctx context.Context, cmd VerifyPaymentCommand) (VerifyOutcome, error) {
	ctx, span := u.tracer.Start(ctx, "orchestrator.verify_payment")
	defer span.End()

	ref := strings.TrimSpace(cmd.TransactionRef)
	if ref == "" {
		return VerifyOutcome{}, ErrInvalidCallback
	}
	gw, err := u.registry.Resolve(strings.ToLower(strings.TrimSpace(cmd.Gateway)))
	if err != nil {
		return VerifyOutcome{}, err
	}
	inv, err := u.invoices.GetByTransactionRef(ctx, ref)
	if err != nil {
		return VerifyOutcome{}, fail(span, err)
	}
	if inv.ID == "" || inv.Gateway != gw.GetGatewayName() {
		return VerifyOutcome{}, entities.ErrInvoiceNotFound
	}
	if !cmd.Admin {
		order, err := u.orders.GetByID(ctx, inv.OrderID)
		if err != nil {
			return VerifyOutcome{}, err
		}
		if order.ID == "" || order.UserID != cmd.UserID {
			return VerifyOutcome{}, ErrOrderNotOwned
		}
	}

	res, err := u.pull(ctx, gw, inv)
	if err != nil {
		return VerifyOutcome{}, fail(span, err)
	}
	out := VerifyOutcome{TransactionRef: ref, Status: res.Status, InvoiceStatus: inv.Status}
	if !res.Status.IsTerminal() {
		return out, nil
	}
	if err := checkAmount(inv, res); err != nil {
		return VerifyOutcome{}, err
	}
	applied, err := u.apply(ctx, inv, res.Status, res.Payload)
	if err != nil {
		return VerifyOutcome{}, err
	}
	out.Applied = applied.Applied
	out.InvoiceStatus = applied.Invoice.Status
	return out, nil
}

// pull asks the gateway for the current status and records the pull.
func (u *PaymentOrchestratorUseCase) pull(ctx context.Context, gw interfaces.IPaymentGateway, inv entities.Invoice) (entities.PaymentResult, error) {
	res, err := gw.VerifyPayment(interfaces.WithGatewayTimeout(ctx, u.cfg.Gateways.Timeout), inv.TransactionRef)
	if err != nil {
		log.Printf("[payment][orchestrator] verify payment failed invoice_id=%s gateway=%s err=%v", inv.ID, inv.Gateway, err)
		return entities.PaymentResult{}, err
	}
	rec := entities.NewAuditRecord(entities.AuditVerificationPull, jsonPayload(map[string]any{"status": res.Status}))
	if err := u.invoices.AppendAudit(ctx, inv.ID, rec); err != nil {
		return entities.PaymentResult{}, err
	}
	return res, nil
}

func (u *PaymentOrchestratorUseCase) ReconcilePending(ctx context.Context, olderThan time.Duration, limit int) (ReconcileReport, error) {
	ctx, span := u.tracer.Start(ctx, "orchestrator.reconcile_pending")
	defer span.End()

	cutoff := time.Now().UTC().Add(-olderThan)
	pending, err := u.invoices.ListPending(ctx, cutoff, limit)
	if err != nil {
		return ReconcileReport{}, fail(span, err)
	}
	log.Printf("[payment][reconcile] sweep start pending=%d older_than=%s", len(pending), olderThan)

	var report ReconcileReport
	for _, inv := range pending {
		report.Checked++
		gw, err := u.registry.Resolve(inv.Gateway)
		if err != nil {
			log.Printf("[payment][reconcile] gateway not registered invoice_id=%s gateway=%s", inv.ID, inv.Gateway)
			report.Errors++
			continue
		}
		res, err := u.pull(ctx, gw, inv)
		if err != nil {
			report.Errors++
			continue
		}
		if !res.Status.IsTerminal() {
			report.StillPending++
			continue
		}
		if err := checkAmount(inv, res); err != nil {
			log.Printf("[payment][reconcile] amount mismatch invoice_id=%s err=%v", inv.ID, err)
			report.Errors++
			continue
		}
		out, err := u.apply(ctx, inv, res.Status, res.Payload)
		if err != nil {
			report.Errors++
			continue
		}
		if !out.Applied {
			report.Conflicts++
			continue
		}
		u.metrics.ReconcileApplied()
		switch res.Status {
		case entities.InvoiceStatusCompleted:
			report.Completed++
		case entities.InvoiceStatusFailed:
			report.Failed++
		case entities.InvoiceStatusCancelled:
			report.Cancelled++
		}
	}
	log.Printf("[payment][reconcile] sweep done checked=%d completed=%d failed=%d cancelled=%d pending=%d conflicts=%d errors=%d",
		report.Checked, report.Completed, report.Failed, report.Cancelled, report.StillPending, report.Conflicts, report.Errors)
	return report, nil
}

func (u *PaymentOrchestratorUseCase) GetInvoice(ctx context.Context, invoiceID, userID string) (InvoiceLookup, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return InvoiceLookup{}, entities.ErrInvoiceNotFound
	}
	inv, err := u.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return InvoiceLookup{}, err
	}
	if inv.ID == "" {
		return InvoiceLookup{}, entities.ErrInvoiceNotFound
	}
	order, err := u.orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return InvoiceLookup{}, err
	}
	return InvoiceLookup{Invoice: inv, Owned: order.ID != "" && order.UserID == userID}, nil
}

func (u *PaymentOrchestratorUseCase) GetOrderPaymentStatus(ctx context.Context, orderID, userID string) (OrderPaymentStatus, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return OrderPaymentStatus{}, ErrInvalidOrderID
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return OrderPaymentStatus{}, err
	}
	if order.ID == "" {
		return OrderPaymentStatus{}, ErrOrderNotFound
	}
	if order.UserID != userID {
		return OrderPaymentStatus{}, ErrOrderNotOwned
	}

	out := OrderPaymentStatus{Order: order}
	if order.ActiveInvoiceID != "" {
		inv, err := u.invoices.GetByID(ctx, order.ActiveInvoiceID)
		if err != nil {
			return OrderPaymentStatus{}, err
		}
		if inv.ID != "" {
			out.ActiveInvoice = &inv
		}
	}
	return out, nil
}

func (u *PaymentOrchestratorUseCase) GetInvoiceByTransactionRef(ctx context.Context, transactionRef string) (entities.Invoice, error) {
	inv, err := u.invoices.GetByTransactionRef(ctx, strings.TrimSpace(transactionRef))
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" {
		return entities.Invoice{}, entities.ErrInvoiceNotFound
	}
	return inv, nil
}

// currencyFor picks the requested currency, else the configured default, else
// the gateway's only currency. Unsupported choices fail before anything is written.
func (u *PaymentOrchestratorUseCase) currencyFor(info entities.GatewayInfo, requested string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(requested))
	supported := func(c string) bool {
		if len(info.SupportedCurrencies) == 0 {
			return true
		}
		for _, s := range info.SupportedCurrencies {
			if strings.EqualFold(s, c) {
				return true
			}
		}
		return false
	}
	if currency == "" {
		currency = strings.ToUpper(u.cfg.Server.DefaultCurrency)
		if !supported(currency) {
			currency = strings.ToUpper(info.SupportedCurrencies[0])
		}
	}
	if !supported(currency) {
		return "", fmt.Errorf("%w: %s does not accept %s", entities.ErrUnsupportedCurrency, info.Name, currency)
	}
	return currency, nil
}

func checkPayable(order entities.Order, userID string) error {
	switch {
	case order.ID == "":
		return ErrOrderNotFound
	case order.UserID != userID:
		return ErrOrderNotOwned
	case order.Status == entities.OrderStatusPaid:
		return entities.ErrAlreadyPaid
	case order.Status.IsTerminal():
		return fmt.Errorf("%w: status %s", entities.ErrOrderNotPayable, order.Status)
	}
	return nil
}

// checkAmount rejects a completion whose paid amount differs from the invoice.
// Results without an amount are accepted.
func checkAmount(inv entities.Invoice, res entities.PaymentResult) error {
	if res.Status != entities.InvoiceStatusCompleted || res.Amount.IsZero() {
		return nil
	}
	if !res.Amount.Round(2).Equal(inv.FinalAmount.Round(2)) {
		return fmt.Errorf("%w: invoice %s expects %s, gateway reported %s",
			entities.ErrAmountMismatch, inv.ID, inv.FinalAmount.StringFixed(2), res.Amount.StringFixed(2))
	}
	return nil
}

func intentPayload(res entities.PaymentResult) json.RawMessage {
	if len(res.Payload) > 0 {
		return res.Payload
	}
	return jsonPayload(map[string]string{"transaction_ref": res.TransactionRef})
}

func jsonPayload(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func orEmptyObject(p json.RawMessage) json.RawMessage {
	if len(p) == 0 || !json.Valid(p) {
		return json.RawMessage("{}")
	}
	return p
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
