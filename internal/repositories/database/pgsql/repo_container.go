package pgsql

import (
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PartyRepo:     newPgxPartyRepository(dbPool),
		DocumentRepo:  newPgxDocumentRepository(dbPool),
		PaymentRepo:   newPgxPaymentRepository(dbPool),
		RecurringRepo: newPgxRecurringRepository(dbPool),
		ExpenseRepo:   newPgxExpenseRepository(dbPool),
		RateRepo:      newPgxExchangeRateRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
