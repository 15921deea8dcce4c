package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/adapters/ratesource"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/core/services"
	"github.com/gstbooks/gst_billing_app/internal/repositories/database/pgsql"
	"github.com/gstbooks/gst_billing_app/pkg/config"
	"github.com/gstbooks/gst_billing_app/pkg/database"
	"github.com/spf13/cobra"
)

var atDate string

// runCmd executes one scheduling pass over the due recurring templates.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one recurring-invoice generation pass",
	Long: `Run one generation pass: every active template whose next generation
date is due gets an invoice, and its next generation date advances by the
template cadence. The run report is printed to stdout as JSON.

Example:
  gba-scheduler run
  gba-scheduler run --at 2024-02-29`,
	RunE: runScheduler,
}

func init() {
	runCmd.Flags().StringVar(&atDate, "at", "", "Evaluate dueness as of this date (YYYY-MM-DD), default now")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	now := time.Now().UTC()
	if atDate != "" {
		parsed, err := time.Parse("2006-01-02", atDate)
		if err != nil {
			return fmt.Errorf("invalid --at date %q, expected YYYY-MM-DD: %w", atDate, err)
		}
		now = parsed
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	fallbackRates, err := ratesource.LoadFallbackRates(cfg.FallbackRatesPath)
	if err != nil {
		return fmt.Errorf("failed to load fallback rates: %w", err)
	}
	var fetcher portssvc.RateFetcher
	if cfg.RateSourceURL != "" {
		fetcher = ratesource.NewClient(cfg.RateSourceURL, cfg.RateSourceTimeout)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, fetcher, fallbackRates)

	slog.Info("Starting recurring generation pass", slog.Time("at", now))
	report, err := serviceContainer.Recurring.RunDueTemplates(ctx, now)
	if err != nil {
		return fmt.Errorf("generation pass failed: %w", err)
	}

	slog.Info("Generation pass finished",
		slog.Int("generated", len(report.Generated)),
		slog.Int("failed", len(report.Failed)),
	)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d template(s) failed during the run", len(report.Failed))
	}
	return nil
}
