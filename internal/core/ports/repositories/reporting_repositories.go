package repositories

import (
	"context"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the reads the financial-statement builder needs.
// Missing data for a period is reported as zero values, never as an error.
type ReportingRepository interface {
	// ListDocumentsInPeriod retrieves documents of one type dated within the period.
	ListDocumentsInPeriod(ctx context.Context, docType domain.DocumentType, period domain.FinancialPeriod) ([]domain.Document, error)

	// SumExpenses totals expense amounts dated within the period. When paidOnly
	// is set only paid expenses count (cash-flow view).
	SumExpenses(ctx context.Context, period domain.FinancialPeriod, paidOnly bool) (decimal.Decimal, error)

	// SumPayments totals payment amounts in the period against documents of the
	// given type (INVOICE = received, PURCHASE = paid out).
	SumPayments(ctx context.Context, docType domain.DocumentType, period domain.FinancialPeriod) (decimal.Decimal, error)

	// GetCashAndBankBalance returns the cash position as of a date.
	GetCashAndBankBalance(ctx context.Context, asOf time.Time) (decimal.Decimal, error)

	// SumOpenBalances totals outstanding document balances as of a date
	// (INVOICE = accounts receivable, PURCHASE = accounts payable).
	SumOpenBalances(ctx context.Context, docType domain.DocumentType, asOf time.Time) (decimal.Decimal, error)

	// GetInventoryValue returns the stock valuation as of a date.
	GetInventoryValue(ctx context.Context, asOf time.Time) (decimal.Decimal, error)
}
