package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxReportingRepository implements the reporting reads using pgxpool.
// All sums coalesce to zero: a period with no activity is a valid state.
type PgxReportingRepository struct {
	BaseRepository
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

func newPgxReportingRepository(db *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: db}}
}

// ListDocumentsInPeriod retrieves documents of one type dated within the period.
// Lines and charges are not loaded; statements only need header aggregates.
func (r *PgxReportingRepository) ListDocumentsInPeriod(ctx context.Context, docType domain.DocumentType, period domain.FinancialPeriod) ([]domain.Document, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE document_type = $1 AND date >= $2 AND date <= $3
		ORDER BY date, document_id`, docType, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("error listing documents in period: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		var recurringTemplateID *string
		if err := rows.Scan(
			&doc.DocumentID, &doc.DocumentType, &doc.DocumentNumber, &doc.PartyID, &doc.Date, &doc.DueDate,
			&doc.PlaceOfSupplyState, &doc.CurrencyCode, &doc.ExchangeRate,
			&doc.TaxableValue, &doc.CGST, &doc.SGST, &doc.IGST, &doc.Cess, &doc.RoundOff, &doc.GrandTotal,
			&doc.PaidAmount, &doc.BalanceAmount, &doc.Status, &recurringTemplateID,
			&doc.CreatedAt, &doc.CreatedBy, &doc.LastUpdatedAt, &doc.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		if recurringTemplateID != nil {
			doc.RecurringTemplateID = *recurringTemplateID
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SumExpenses totals expense amounts dated within the period.
func (r *PgxReportingRepository) SumExpenses(ctx context.Context, period domain.FinancialPeriod, paidOnly bool) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM expenses
		WHERE date >= $1 AND date <= $2 AND ($3 = false OR paid)`,
		period.StartDate, period.EndDate, paidOnly).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing expenses: %w", err)
	}
	return total, nil
}

// SumPayments totals payment amounts in the period against documents of the
// given type.
func (r *PgxReportingRepository) SumPayments(ctx context.Context, docType domain.DocumentType, period domain.FinancialPeriod) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN documents d ON d.document_id = p.document_id
		WHERE d.document_type = $1 AND p.date >= $2 AND p.date <= $3`,
		docType, period.StartDate, period.EndDate).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing payments: %w", err)
	}
	return total, nil
}

// GetCashAndBankBalance returns the cumulative cash position as of a date:
// payments received minus payments made minus paid expenses.
func (r *PgxReportingRepository) GetCashAndBankBalance(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(p.amount) FROM payments p
				JOIN documents d ON d.document_id = p.document_id
				WHERE d.document_type = 'INVOICE' AND p.date <= $1), 0)
			- COALESCE((SELECT SUM(p.amount) FROM payments p
				JOIN documents d ON d.document_id = p.document_id
				WHERE d.document_type = 'PURCHASE' AND p.date <= $1), 0)
			- COALESCE((SELECT SUM(total_amount) FROM expenses
				WHERE paid AND date <= $1), 0)`, asOf).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error computing cash balance: %w", err)
	}
	return total, nil
}

// SumOpenBalances totals outstanding document balances as of a date.
func (r *PgxReportingRepository) SumOpenBalances(ctx context.Context, docType domain.DocumentType, asOf time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance_amount), 0)
		FROM documents
		WHERE document_type = $1 AND date <= $2 AND status NOT IN ('DRAFT', 'CANCELLED')`,
		docType, asOf).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing open balances: %w", err)
	}
	return total, nil
}

// GetInventoryValue returns the stock valuation as of a date. Valuation uses
// the current product cost; historical cost layers are out of scope.
func (r *PgxReportingRepository) GetInventoryValue(ctx context.Context, _ time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock_quantity * unit_cost), 0) FROM products`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error computing inventory value: %w", err)
	}
	return total, nil
}
