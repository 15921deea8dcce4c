package pgsql

import (
	"context"
	"fmt"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPaymentRepository implements the payment repository ports using pgxpool.
type PgxPaymentRepository struct {
	BaseRepository
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func newPgxPaymentRepository(db *pgxpool.Pool) *PgxPaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: db}}
}

// ListPaymentsByDocument retrieves the payments recorded against a document.
func (r *PgxPaymentRepository) ListPaymentsByDocument(ctx context.Context, documentID string) ([]domain.Payment, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT payment_id, document_id, amount, date, method, COALESCE(reference, ''),
		       created_at, created_by, last_updated_at, last_updated_by
		FROM payments WHERE document_id = $1 ORDER BY date, payment_id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.PaymentID, &payment.DocumentID, &payment.Amount, &payment.Date, &payment.Method, &payment.Reference,
			&payment.CreatedAt, &payment.CreatedBy, &payment.LastUpdatedAt, &payment.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
