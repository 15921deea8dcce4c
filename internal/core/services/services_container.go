package services

import (
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/pkg/config"
	"github.com/shopspring/decimal"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. fetcher may be nil when no live rate source is configured;
// fallbackRates holds the static approximate rates keyed "FROM_TO".
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, fetcher portssvc.RateFetcher, fallbackRates map[string]decimal.Decimal) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Party = NewPartyService(repos.PartyRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo)

	// Pure calculators first since other services depend on them
	container.Totals = NewTotalsService()
	container.PaymentStatus = NewPaymentStatusService()

	container.Currency = NewCurrencyService(fetcher, fallbackRates,
		WithRateCacheTTL(cfg.RateCacheTTL),
		WithFetchTimeout(cfg.RateSourceTimeout),
		WithRateReader(repos.RateRepo),
		WithRateWriter(repos.RateRepo),
	)

	container.Document = NewDocumentService(
		repos.DocumentRepo,
		repos.PaymentRepo,
		repos.PartyRepo,
		container.Totals,
		container.Currency,
		container.PaymentStatus,
		cfg.SupplierStateCode,
		cfg.BaseCurrency,
	)

	container.Recurring = NewRecurringService(
		repos.RecurringRepo,
		container.Totals,
		container.Currency,
		cfg.SupplierStateCode,
		cfg.BaseCurrency,
	)

	container.Reporting = NewReportingService(repos.ReportingRepo, cfg.StatutoryTaxRate)

	return container
}
