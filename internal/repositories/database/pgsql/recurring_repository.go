package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRecurringRepository implements the recurring-template repository ports
// using pgxpool, including the row-locked unit of work for scheduler runs.
type PgxRecurringRepository struct {
	BaseRepository
}

var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

func newPgxRecurringRepository(db *pgxpool.Pool) *PgxRecurringRepository {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: db}}
}

const templateColumns = `
	template_id, name, party_id, place_of_supply_state, currency_code, terms,
	recurrence_type, recurrence_interval, start_date, end_date, next_generation_date,
	is_active, created_at, created_by, last_updated_at, last_updated_by`

// SaveTemplate persists a template with its items in one transaction.
func (r *PgxRecurringRepository) SaveTemplate(ctx context.Context, tmpl domain.RecurringTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO recurring_templates (`+templateColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		tmpl.TemplateID, tmpl.Name, tmpl.PartyID, tmpl.PlaceOfSupplyState, tmpl.CurrencyCode, tmpl.Terms,
		tmpl.RecurrenceType, tmpl.RecurrenceInterval, tmpl.StartDate, tmpl.EndDate, tmpl.NextGenerationDate,
		tmpl.IsActive, tmpl.CreatedAt, tmpl.CreatedBy, tmpl.LastUpdatedAt, tmpl.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting recurring template: %w", err)
	}

	for _, item := range tmpl.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO recurring_template_items (
				template_item_id, template_id, product_id, description, quantity, unit_price,
				discount_type, discount, tax_rate, cess_rate, is_service
			) VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9,$10,$11)`,
			item.TemplateItemID, item.TemplateID, item.ProductID, item.Description, item.Quantity, item.UnitPrice,
			item.DiscountType, item.Discount, item.TaxRate, item.CessRate, item.IsService,
		)
		if err != nil {
			return fmt.Errorf("error inserting template item: %w", err)
		}
	}
	return r.Commit(ctx, tx)
}

// FindTemplateByID retrieves a template with its items.
func (r *PgxRecurringRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	tmpl, err := scanTemplate(r.Pool.QueryRow(ctx, `
		SELECT `+templateColumns+` FROM recurring_templates WHERE template_id = $1`, templateID))
	if err != nil {
		return nil, err
	}
	if tmpl.Items, err = r.loadItems(ctx, r.Pool, templateID); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// ListDueTemplateIDs returns the IDs of active templates due at now.
func (r *PgxRecurringRepository) ListDueTemplateIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT template_id FROM recurring_templates
		WHERE is_active AND next_generation_date <= $1
		  AND (end_date IS NULL OR end_date > $1)
		ORDER BY next_generation_date`, now)
	if err != nil {
		return nil, fmt.Errorf("error listing due templates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning template id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListTemplates retrieves templates, newest first.
func (r *PgxRecurringRepository) ListTemplates(ctx context.Context, limit, offset int) ([]domain.RecurringTemplate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+templateColumns+` FROM recurring_templates
		ORDER BY created_at DESC, template_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing recurring templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.RecurringTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tmpl)
	}
	return templates, rows.Err()
}

// LockTemplateForRun loads and row-locks a template if it is still due at now.
// SKIP LOCKED makes a template claimed by another scheduler instance look like
// a not-found row, which the service treats as "no longer due".
func (r *PgxRecurringRepository) LockTemplateForRun(ctx context.Context, tx pgx.Tx, templateID string, now time.Time) (*domain.RecurringTemplate, error) {
	tmpl, err := scanTemplate(tx.QueryRow(ctx, `
		SELECT `+templateColumns+` FROM recurring_templates
		WHERE template_id = $1 AND is_active AND next_generation_date <= $2
		  AND (end_date IS NULL OR end_date > $2)
		FOR UPDATE SKIP LOCKED`, templateID, now))
	if err != nil {
		return nil, err
	}
	if tmpl.Items, err = r.loadItems(ctx, tx, templateID); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// SaveGeneratedDocument persists a generated document inside the run transaction.
func (r *PgxRecurringRepository) SaveGeneratedDocument(ctx context.Context, tx pgx.Tx, doc domain.Document) error {
	return insertDocument(ctx, tx, doc)
}

// AdvanceNextGenerationDate moves the template's next generation date forward
// inside the run transaction.
func (r *PgxRecurringRepository) AdvanceNextGenerationDate(ctx context.Context, tx pgx.Tx, templateID string, next time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE recurring_templates
		SET next_generation_date = $1, last_updated_at = now()
		WHERE template_id = $2`, next, templateID)
	if err != nil {
		return fmt.Errorf("error advancing next generation date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// itemQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type itemQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxRecurringRepository) loadItems(ctx context.Context, q itemQuerier, templateID string) ([]domain.TemplateItem, error) {
	rows, err := q.Query(ctx, `
		SELECT template_item_id, template_id, COALESCE(product_id, ''), description, quantity, unit_price,
		       discount_type, discount, tax_rate, cess_rate, is_service
		FROM recurring_template_items WHERE template_id = $1 ORDER BY template_item_id`, templateID)
	if err != nil {
		return nil, fmt.Errorf("error listing template items: %w", err)
	}
	defer rows.Close()

	var items []domain.TemplateItem
	for rows.Next() {
		var item domain.TemplateItem
		if err := rows.Scan(
			&item.TemplateItemID, &item.TemplateID, &item.ProductID, &item.Description, &item.Quantity, &item.UnitPrice,
			&item.DiscountType, &item.Discount, &item.TaxRate, &item.CessRate, &item.IsService,
		); err != nil {
			return nil, fmt.Errorf("error scanning template item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanTemplate(row pgx.Row) (*domain.RecurringTemplate, error) {
	tmpl := &domain.RecurringTemplate{}
	err := row.Scan(
		&tmpl.TemplateID, &tmpl.Name, &tmpl.PartyID, &tmpl.PlaceOfSupplyState, &tmpl.CurrencyCode, &tmpl.Terms,
		&tmpl.RecurrenceType, &tmpl.RecurrenceInterval, &tmpl.StartDate, &tmpl.EndDate, &tmpl.NextGenerationDate,
		&tmpl.IsActive, &tmpl.CreatedAt, &tmpl.CreatedBy, &tmpl.LastUpdatedAt, &tmpl.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning recurring template: %w", err)
	}
	return tmpl, nil
}
