package services

import (
	"context"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
)

// ReportingSvcFacade builds financial statements from ledger-like records.
// Periods with no activity yield all-zero sections, not errors.
type ReportingSvcFacade interface {
	// ProfitAndLoss builds the P&L statement over a period.
	ProfitAndLoss(ctx context.Context, period domain.FinancialPeriod) (*domain.ProfitAndLossStatement, error)

	// BalanceSheet builds the balance sheet as of a date. Equity is derived as
	// assets minus liabilities so the accounting identity holds by construction.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetStatement, error)

	// CashFlow builds the cash-flow statement over a period.
	CashFlow(ctx context.Context, period domain.FinancialPeriod) (*domain.CashFlowStatement, error)
}
