package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// revenueStatuses are the document statuses that count toward revenue and COGS.
// Draft and Cancelled documents never contribute.
var revenueStatuses = map[domain.DocumentStatus]bool{
	domain.StatusSent:          true,
	domain.StatusPaid:          true,
	domain.StatusPartiallyPaid: true,
	domain.StatusOverdue:       true,
}

// reportingService builds financial statements from ledger-like records.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	statutoryRate decimal.Decimal // fraction, e.g. 0.25 for 25%
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// NewReportingService creates a new reporting service. statutoryRate is the
// configured income-tax fraction applied to positive operating profit; a
// negative value means the rate is not configured.
func NewReportingService(repo portsrepo.ReportingRepository, statutoryRate decimal.Decimal, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		reportingRepo: repo,
		statutoryRate: statutoryRate,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// ProfitAndLoss builds the P&L statement over a period. Periods with no
// activity yield an all-zero statement.
func (s *reportingService) ProfitAndLoss(ctx context.Context, period domain.FinancialPeriod) (*domain.ProfitAndLossStatement, error) {
	if s.statutoryRate.IsNegative() {
		return nil, fmt.Errorf("%w: statutory tax rate is not configured", apperrors.ErrConfiguration)
	}

	invoices, err := s.reportingRepo.ListDocumentsInPeriod(ctx, domain.DocumentInvoice, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve invoices for profit and loss")
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}
	purchases, err := s.reportingRepo.ListDocumentsInPeriod(ctx, domain.DocumentPurchase, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve purchases for profit and loss")
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}
	expenses, err := s.reportingRepo.SumExpenses(ctx, period, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve expenses for profit and loss")
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	revenue := sumRevenueTotals(invoices)
	cogs := sumRevenueTotals(purchases)
	grossProfit := revenue.Sub(cogs)
	operatingProfit := grossProfit.Sub(expenses)

	tax := decimal.Zero
	if operatingProfit.GreaterThan(decimal.Zero) {
		tax = operatingProfit.Mul(s.statutoryRate)
	}

	report := &domain.ProfitAndLossStatement{
		Period:            period,
		Revenue:           revenue,
		CostOfGoodsSold:   cogs,
		GrossProfit:       grossProfit,
		OperatingExpenses: expenses,
		OperatingProfit:   operatingProfit,
		Tax:               tax,
		NetProfit:         operatingProfit.Sub(tax),
	}

	s.LogInfo(ctx, "Profit and loss statement generated",
		slog.String("from", period.StartDate.Format(time.RFC3339)),
		slog.String("to", period.EndDate.Format(time.RFC3339)),
		slog.Int("invoices", len(invoices)),
		slog.Int("purchases", len(purchases)))
	return report, nil
}

// BalanceSheet builds the balance sheet as of a date. Equity is derived as
// assets minus liabilities rather than summed from a separate ledger, which is
// what guarantees assets == liabilities + equity by construction.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetStatement, error) {
	cash, err := s.reportingRepo.GetCashAndBankBalance(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve cash balance for balance sheet")
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}
	receivable, err := s.reportingRepo.SumOpenBalances(ctx, domain.DocumentInvoice, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve accounts receivable for balance sheet")
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}
	payable, err := s.reportingRepo.SumOpenBalances(ctx, domain.DocumentPurchase, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve accounts payable for balance sheet")
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}
	inventory, err := s.reportingRepo.GetInventoryValue(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve inventory value for balance sheet")
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	totalAssets := cash.Add(receivable).Add(inventory)
	totalLiabilities := payable

	report := &domain.BalanceSheetStatement{
		AsOf:               asOf,
		CashAndBank:        cash,
		AccountsReceivable: receivable,
		InventoryValue:     inventory,
		TotalAssets:        totalAssets,
		AccountsPayable:    payable,
		TotalLiabilities:   totalLiabilities,
		Equity:             totalAssets.Sub(totalLiabilities),
	}

	s.LogInfo(ctx, "Balance sheet generated", slog.String("asOf", asOf.Format(time.RFC3339)))
	return report, nil
}

// CashFlow builds the cash-flow statement over a period. Investing and
// financing stay zero until such records exist in the system.
func (s *reportingService) CashFlow(ctx context.Context, period domain.FinancialPeriod) (*domain.CashFlowStatement, error) {
	received, err := s.reportingRepo.SumPayments(ctx, domain.DocumentInvoice, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve payments received for cash flow")
		return nil, fmt.Errorf("failed to retrieve cash flow data: %w", err)
	}
	paid, err := s.reportingRepo.SumPayments(ctx, domain.DocumentPurchase, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve payments paid for cash flow")
		return nil, fmt.Errorf("failed to retrieve cash flow data: %w", err)
	}
	expensesPaid, err := s.reportingRepo.SumExpenses(ctx, period, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve expenses paid for cash flow")
		return nil, fmt.Errorf("failed to retrieve cash flow data: %w", err)
	}
	opening, err := s.reportingRepo.GetCashAndBankBalance(ctx, period.StartDate.AddDate(0, 0, -1))
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve opening balance for cash flow")
		return nil, fmt.Errorf("failed to retrieve cash flow data: %w", err)
	}

	operating := received.Sub(paid).Sub(expensesPaid)
	investing := decimal.Zero
	financing := decimal.Zero
	netCashFlow := operating.Add(investing).Add(financing)

	report := &domain.CashFlowStatement{
		Period:           period,
		OpeningBalance:   opening,
		Operating:        operating,
		Investing:        investing,
		Financing:        financing,
		NetCashFlow:      netCashFlow,
		ClosingBalance:   opening.Add(netCashFlow),
		PaymentsReceived: received,
		PaymentsPaid:     paid,
		ExpensesPaid:     expensesPaid,
	}

	s.LogInfo(ctx, "Cash flow statement generated",
		slog.String("from", period.StartDate.Format(time.RFC3339)),
		slog.String("to", period.EndDate.Format(time.RFC3339)))
	return report, nil
}

// sumRevenueTotals sums grand totals over documents whose status counts.
func sumRevenueTotals(docs []domain.Document) decimal.Decimal {
	total := decimal.Zero
	for _, doc := range docs {
		if revenueStatuses[doc.Status] {
			total = total.Add(doc.GrandTotal)
		}
	}
	return total
}
