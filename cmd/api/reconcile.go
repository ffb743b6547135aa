package main

import (
	"encoding/json"
	"fmt"
	"time"

	appconfig "restaurant_payments/internal/infrastructure/config"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var (
		olderThan time.Duration
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Pull the status of stale pending invoices from their gateways",
		Long: `Reconcile pending invoices whose callback never arrived.

Examples:
  payments reconcile
  payments reconcile --older-than 30m --limit 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("older-than") {
				olderThan = cfg.Reconcile.OlderThan
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Reconcile.Limit
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			report, err := a.orchestrator.ReconcilePending(cmd.Context(), olderThan, limit)
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			out, _ := json.MarshalIndent(report, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 15*time.Minute, "only invoices pending for longer than this")
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "maximum invoices to check")
	return cmd
}
