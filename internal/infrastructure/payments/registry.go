package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/observability"
	"restaurant_payments/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GatewayRegistry is the table of gateway clients, filled once at construction.
type GatewayRegistry struct {
	gateways map[string]interfaces.IPaymentGateway
	names    []string
}

var _ interfaces.IGatewayRegistry = (*GatewayRegistry)(nil)

// NewGatewayRegistry wraps every client with the circuit breaker, metrics and
// tracing guard. Duplicate gateway names are rejected.
func NewGatewayRegistry(clients []interfaces.IPaymentGateway, breaker *CircuitBreaker, metrics *observability.Metrics) (*GatewayRegistry, error) {
	if breaker == nil {
		breaker = NewCircuitBreaker(0, 0, 0)
	}
	if metrics != nil {
		breaker.OnOpen(metrics.CircuitOpened)
	}

	r := &GatewayRegistry{gateways: make(map[string]interfaces.IPaymentGateway, len(clients))}
	for _, c := range clients {
		if c == nil {
			continue
		}
		name := strings.ToLower(c.GetGatewayName())
		if name == "" {
			return nil, errors.New("gateway registry: empty gateway name")
		}
		if _, dup := r.gateways[name]; dup {
			return nil, fmt.Errorf("gateway registry: duplicate gateway %q", name)
		}
		r.gateways[name] = &guardedGateway{inner: c, name: name, breaker: breaker, metrics: metrics}
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	log.Printf("[payment][gateway] registry ready gateways=%s", strings.Join(r.names, ","))
	return r, nil
}

func (r *GatewayRegistry) Resolve(id string) (interfaces.IPaymentGateway, error) {
	g, ok := r.gateways[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", entities.ErrUnsupportedGateway, id, strings.Join(r.names, ", "))
	}
	return g, nil
}

func (r *GatewayRegistry) Supported() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *GatewayRegistry) Describe() []entities.GatewayInfo {
	out := make([]entities.GatewayInfo, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.gateways[n].Info())
	}
	return out
}

// NewGatewaysFromConfig builds a client for every gateway whose credentials are configured.
func NewGatewaysFromConfig(cfg config.GatewaysConfig) ([]interfaces.IPaymentGateway, error) {
	opts := TransportOptions{Timeout: cfg.Timeout, MaxRetries: cfg.MaxRetries, RetryDelay: cfg.RetryDelay}

	var out []interfaces.IPaymentGateway
	if cfg.PayPal.Enabled() {
		out = append(out, NewPayPalGateway(cfg.PayPal, opts))
	}
	if cfg.Stripe.Enabled() {
		out = append(out, NewStripeGateway(cfg.Stripe, opts))
	}
	if cfg.Paymob.Enabled() {
		out = append(out, NewPaymobGateway(cfg.Paymob, opts))
	}
	if cfg.MercadoPago.Enabled() {
		mp, err := NewMercadoPagoGateway(cfg.MercadoPago, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, mp)
	}
	if len(out) == 0 {
		log.Printf("[payment][gateway] no gateway credentials configured")
	}
	return out, nil
}

// guardedGateway adds breaker, metrics and a span around every provider call.
type guardedGateway struct {
	inner   interfaces.IPaymentGateway
	name    string
	breaker *CircuitBreaker
	metrics *observability.Metrics
}

func (g *guardedGateway) GetGatewayName() string     { return g.name }
func (g *guardedGateway) Info() entities.GatewayInfo { return g.inner.Info() }

func (g *guardedGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	var res entities.PaymentResult
	err := g.call(ctx, "create_payment", func(ctx context.Context) error {
		var err error
		res, err = g.inner.CreatePayment(ctx, req)
		return err
	})
	return res, err
}

func (g *guardedGateway) VerifyCallback(ctx context.Context, req entities.CallbackRequest) error {
	return g.call(ctx, "verify_callback", func(ctx context.Context) error {
		return g.inner.VerifyCallback(ctx, req)
	})
}

func (g *guardedGateway) HandleCallback(ctx context.Context, req entities.CallbackRequest) (entities.PaymentResult, error) {
	var res entities.PaymentResult
	err := g.call(ctx, "handle_callback", func(ctx context.Context) error {
		var err error
		res, err = g.inner.HandleCallback(ctx, req)
		return err
	})
	return res, err
}

func (g *guardedGateway) VerifyPayment(ctx context.Context, transactionRef string) (entities.PaymentResult, error) {
	var res entities.PaymentResult
	err := g.call(ctx, "verify_payment", func(ctx context.Context) error {
		var err error
		res, err = g.inner.VerifyPayment(ctx, transactionRef)
		return err
	})
	return res, err
}

// call fails fast while the breaker is open. Only ErrGatewayUnavailable
// counts against the gateway; rejections prove it is reachable.
func (g *guardedGateway) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := otel.Tracer(observability.TracerName).Start(ctx, "gateway."+op)
	defer span.End()
	span.SetAttributes(attribute.String("payment.gateway", g.name))

	if !g.breaker.Allow(g.name) {
		err := fmt.Errorf("%w: %s circuit open", entities.ErrGatewayUnavailable, g.name)
		span.RecordError(err)
		span.SetStatus(codes.Error, "circuit open")
		log.Printf("[payment][gateway] circuit open gateway=%s op=%s", g.name, op)
		return err
	}

	started := time.Now()
	err := fn(ctx)
	if g.metrics != nil {
		g.metrics.ObserveGateway(g.name, op, started)
	}

	if errors.Is(err, entities.ErrGatewayUnavailable) {
		g.breaker.RecordFailure(g.name)
	} else {
		g.breaker.RecordSuccess(g.name)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
