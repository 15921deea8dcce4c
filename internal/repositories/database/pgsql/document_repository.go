package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxDocumentRepository implements the document repository ports using pgxpool.
type PgxDocumentRepository struct {
	BaseRepository
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func newPgxDocumentRepository(db *pgxpool.Pool) *PgxDocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: db}}
}

const documentColumns = `
	document_id, document_type, document_number, party_id, date, due_date,
	place_of_supply_state, currency_code, exchange_rate,
	taxable_value, cgst, sgst, igst, cess, round_off, grand_total,
	paid_amount, balance_amount, status, recurring_template_id,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveDocument persists a document with its lines and charges in one transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertDocument(ctx, tx, doc); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// insertDocument writes the header, lines and charges using the given transaction.
// Shared with the recurring unit of work so generated documents use the same SQL.
func insertDocument(ctx context.Context, tx pgx.Tx, doc domain.Document) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,NULLIF($20,''),$21,$22,$23,$24)`,
		doc.DocumentID, doc.DocumentType, doc.DocumentNumber, doc.PartyID, doc.Date, doc.DueDate,
		doc.PlaceOfSupplyState, doc.CurrencyCode, doc.ExchangeRate,
		doc.TaxableValue, doc.CGST, doc.SGST, doc.IGST, doc.Cess, doc.RoundOff, doc.GrandTotal,
		doc.PaidAmount, doc.BalanceAmount, doc.Status, doc.RecurringTemplateID,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting document: %w", err)
	}

	for _, line := range doc.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO line_items (
				line_item_id, document_id, product_id, description, quantity, unit_price,
				discount_type, discount, tax_rate, cess_rate, is_service,
				created_at, created_by, last_updated_at, last_updated_by
			) VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			line.LineItemID, line.DocumentID, line.ProductID, line.Description, line.Quantity, line.UnitPrice,
			line.DiscountType, line.Discount, line.TaxRate, line.CessRate, line.IsService,
			line.CreatedAt, line.CreatedBy, line.LastUpdatedAt, line.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("error inserting line item: %w", err)
		}
	}

	for _, charge := range doc.Charges {
		_, err = tx.Exec(ctx, `
			INSERT INTO charges (
				charge_id, document_id, name, amount, taxable, tax_rate,
				created_at, created_by, last_updated_at, last_updated_by
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			charge.ChargeID, charge.DocumentID, charge.Name, charge.Amount, charge.Taxable, charge.TaxRate,
			charge.CreatedAt, charge.CreatedBy, charge.LastUpdatedAt, charge.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("error inserting charge: %w", err)
		}
	}
	return nil
}

// FindDocumentForUpdate loads and row-locks a document header inside the given
// transaction. Lines and charges are not loaded; the lock serializes payment
// recording against the balance.
func (r *PgxDocumentRepository) FindDocumentForUpdate(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error) {
	doc := &domain.Document{}
	var recurringTemplateID *string
	err := tx.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE document_id = $1 FOR UPDATE`, documentID,
	).Scan(
		&doc.DocumentID, &doc.DocumentType, &doc.DocumentNumber, &doc.PartyID, &doc.Date, &doc.DueDate,
		&doc.PlaceOfSupplyState, &doc.CurrencyCode, &doc.ExchangeRate,
		&doc.TaxableValue, &doc.CGST, &doc.SGST, &doc.IGST, &doc.Cess, &doc.RoundOff, &doc.GrandTotal,
		&doc.PaidAmount, &doc.BalanceAmount, &doc.Status, &recurringTemplateID,
		&doc.CreatedAt, &doc.CreatedBy, &doc.LastUpdatedAt, &doc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error locking document: %w", err)
	}
	if recurringTemplateID != nil {
		doc.RecurringTemplateID = *recurringTemplateID
	}
	return doc, nil
}

// SavePayment persists an immutable payment record inside the transaction.
// Payments are never updated or deleted.
func (r *PgxDocumentRepository) SavePayment(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payments (
			payment_id, document_id, amount, date, method, reference,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,$8,$9,$10)`,
		payment.PaymentID, payment.DocumentID, payment.Amount, payment.Date, payment.Method, payment.Reference,
		payment.CreatedAt, payment.CreatedBy, payment.LastUpdatedAt, payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting payment: %w", err)
	}
	return nil
}

// FindDocumentByID retrieves a document with its lines and charges.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc := &domain.Document{}
	var recurringTemplateID *string
	err := r.Pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE document_id = $1`, documentID,
	).Scan(
		&doc.DocumentID, &doc.DocumentType, &doc.DocumentNumber, &doc.PartyID, &doc.Date, &doc.DueDate,
		&doc.PlaceOfSupplyState, &doc.CurrencyCode, &doc.ExchangeRate,
		&doc.TaxableValue, &doc.CGST, &doc.SGST, &doc.IGST, &doc.Cess, &doc.RoundOff, &doc.GrandTotal,
		&doc.PaidAmount, &doc.BalanceAmount, &doc.Status, &recurringTemplateID,
		&doc.CreatedAt, &doc.CreatedBy, &doc.LastUpdatedAt, &doc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding document: %w", err)
	}
	if recurringTemplateID != nil {
		doc.RecurringTemplateID = *recurringTemplateID
	}

	if doc.Lines, err = r.loadLines(ctx, documentID); err != nil {
		return nil, err
	}
	if doc.Charges, err = r.loadCharges(ctx, documentID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *PgxDocumentRepository) loadLines(ctx context.Context, documentID string) ([]domain.LineItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT line_item_id, document_id, COALESCE(product_id, ''), description, quantity, unit_price,
		       discount_type, discount, tax_rate, cess_rate, is_service,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM line_items WHERE document_id = $1 ORDER BY created_at, line_item_id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("error listing line items: %w", err)
	}
	defer rows.Close()

	var lines []domain.LineItem
	for rows.Next() {
		var line domain.LineItem
		if err := rows.Scan(
			&line.LineItemID, &line.DocumentID, &line.ProductID, &line.Description, &line.Quantity, &line.UnitPrice,
			&line.DiscountType, &line.Discount, &line.TaxRate, &line.CessRate, &line.IsService,
			&line.CreatedAt, &line.CreatedBy, &line.LastUpdatedAt, &line.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning line item: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PgxDocumentRepository) loadCharges(ctx context.Context, documentID string) ([]domain.Charge, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT charge_id, document_id, name, amount, taxable, tax_rate,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM charges WHERE document_id = $1 ORDER BY created_at, charge_id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("error listing charges: %w", err)
	}
	defer rows.Close()

	var charges []domain.Charge
	for rows.Next() {
		var charge domain.Charge
		if err := rows.Scan(
			&charge.ChargeID, &charge.DocumentID, &charge.Name, &charge.Amount, &charge.Taxable, &charge.TaxRate,
			&charge.CreatedAt, &charge.CreatedBy, &charge.LastUpdatedAt, &charge.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning charge: %w", err)
		}
		charges = append(charges, charge)
	}
	return charges, rows.Err()
}

// ListDocuments retrieves documents of one type, newest first. Lines and
// charges are not loaded for listings.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, docType domain.DocumentType, limit, offset int) ([]domain.Document, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE document_type = $1
		ORDER BY date DESC, document_id LIMIT $2 OFFSET $3`, docType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
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

// UpdateDocumentPayment updates the paid/balance aggregates and status inside
// the payment transaction.
func (r *PgxDocumentRepository) UpdateDocumentPayment(ctx context.Context, tx pgx.Tx, documentID string, paidAmount, balanceAmount decimal.Decimal, status domain.DocumentStatus) error {
	tag, err := tx.Exec(ctx, `
		UPDATE documents
		SET paid_amount = $1, balance_amount = $2, status = $3, last_updated_at = now()
		WHERE document_id = $4`,
		paidAmount, balanceAmount, status, documentID)
	if err != nil {
		return fmt.Errorf("error updating document payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateDocumentStatus updates only the document status.
func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE documents SET status = $1, last_updated_at = now() WHERE document_id = $2`,
		status, documentID)
	if err != nil {
		return fmt.Errorf("error updating document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
