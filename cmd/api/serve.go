package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"restaurant_payments/internal/adapter/http/handlers"
	"restaurant_payments/internal/adapter/http/routes"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/observability"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		port        string
		autoMigrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the payments HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if autoMigrate {
				if err := migrateStore(cmd.Context(), cfg.Store); err != nil {
					return err
				}
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "create missing tables before serving")
	return cmd
}

func runServe(parent context.Context, cfg appconfig.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(cfg.Tracing.Enabled)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.Tracing.ServiceName
	}
	router := routes.NewRouter(routes.Handlers{
		Payments: handlers.NewPaymentHandler(a.orchestrator, a.callbacks, a.fees, a.registry, cfg.Server.FrontendRedirectURL),
		Orders:   handlers.NewOrderHandler(a.orders),
	}, routes.Options{
		ServiceName: serviceName,
		JWTSecret:   cfg.Auth.JWTSecret,
		RateLimit:   cfg.Callback.RateLimit,
		RateBurst:   cfg.Callback.RateBurst,
		Metrics:     a.metrics.Handler(),
	})

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[payment][boot] listening port=%s", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to startup the application: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[payment][boot] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
