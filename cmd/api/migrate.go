package main

import (
	"context"
	"fmt"

	"restaurant_payments/internal/adapter/persistence/repository"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the order and invoice tables for the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load()
			if err != nil {
				return err
			}
			if err := migrateStore(cmd.Context(), cfg.Store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store %s ready\n", cfg.Store.Driver)
			return nil
		},
	}
}

func migrateStore(ctx context.Context, cfg appconfig.StoreConfig) error {
	switch cfg.Driver {
	case "mysql", "sqlite":
		db, err := database.ConnectGorm(cfg)
		if err != nil {
			return err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return err
		}
		if err := database.EnsureDynamoTables(ctx, ddb, cfg.DynamoDB); err != nil {
			return fmt.Errorf("ensure tables: %w", err)
		}
	}
	return nil
}
