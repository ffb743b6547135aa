package main

import (
	"context"
	"fmt"
	"log"

	"restaurant_payments/internal/adapter/persistence/repository"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/database"
	"restaurant_payments/internal/infrastructure/observability"
	"restaurant_payments/internal/infrastructure/payments"
	"restaurant_payments/internal/usecase"
	"restaurant_payments/internal/usecase/interfaces"
)

// app holds the wired use cases shared by every command.
type app struct {
	cfg          appconfig.Config
	metrics      *observability.Metrics
	registry     *payments.GatewayRegistry
	orchestrator *usecase.PaymentOrchestratorUseCase
	callbacks    *usecase.CallbackProcessorUseCase
	orders       *usecase.OrderUseCase
	fees         *usecase.FeeUseCase
}

type stores struct {
	orders   interfaces.IOrderRepository
	invoices interfaces.IInvoiceRepository
}

func openStores(ctx context.Context, cfg appconfig.StoreConfig) (stores, error) {
	switch cfg.Driver {
	case "mysql", "sqlite":
		db, err := database.ConnectGorm(cfg)
		if err != nil {
			return stores{}, err
		}
		return stores{
			orders:   repository.NewOrderGormRepository(db),
			invoices: repository.NewInvoiceGormRepository(db),
		}, nil
	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return stores{}, err
		}
		return stores{
			orders:   repository.NewOrderDynamoRepository(ddb, cfg.DynamoDB),
			invoices: repository.NewInvoiceDynamoRepository(ddb, cfg.DynamoDB),
		}, nil
	}
}

func newApp(ctx context.Context, cfg appconfig.Config) (*app, error) {
	st, err := openStores(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	clients, err := payments.NewGatewaysFromConfig(cfg.Gateways)
	if err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	metrics := observability.NewMetrics()
	breaker := payments.NewCircuitBreaker(cfg.Breaker.FailureThreshold, cfg.Breaker.OpenTimeout, cfg.Breaker.HalfOpenSuccesses)
	registry, err := payments.NewGatewayRegistry(clients, breaker, metrics)
	if err != nil {
		return nil, fmt.Errorf("gateway registry: %w", err)
	}
	log.Printf("[payment][boot] store=%s gateways=%v", cfg.Store.Driver, registry.Supported())

	fees, err := usecase.NewFeeUseCase(cfg.Fees)
	if err != nil {
		return nil, fmt.Errorf("fees: %w", err)
	}

	orchestrator := usecase.NewPaymentOrchestratorUseCase(st.orders, st.invoices, registry, cfg, metrics)
	return &app{
		cfg:          cfg,
		metrics:      metrics,
		registry:     registry,
		orchestrator: orchestrator,
		callbacks:    usecase.NewCallbackProcessorUseCase(registry, st.invoices, orchestrator, cfg, metrics),
		orders:       usecase.NewOrderUseCase(st.orders),
		fees:         fees,
	}, nil
}
