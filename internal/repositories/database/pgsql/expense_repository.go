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
)

// PgxExpenseRepository implements the expense repository ports using pgxpool.
type PgxExpenseRepository struct {
	BaseRepository
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func newPgxExpenseRepository(db *pgxpool.Pool) *PgxExpenseRepository {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: db}}
}

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense := &domain.Expense{}
	err := r.Pool.QueryRow(ctx, `
		SELECT expense_id, category, description, total_amount, date, paid,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM expenses WHERE expense_id = $1`, expenseID,
	).Scan(
		&expense.ExpenseID, &expense.Category, &expense.Description, &expense.TotalAmount, &expense.Date, &expense.Paid,
		&expense.CreatedAt, &expense.CreatedBy, &expense.LastUpdatedAt, &expense.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding expense: %w", err)
	}
	return expense, nil
}

// ListExpenses retrieves expenses, newest first.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, limit, offset int) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT expense_id, category, description, total_amount, date, paid,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM expenses ORDER BY date DESC, expense_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(
			&expense.ExpenseID, &expense.Category, &expense.Description, &expense.TotalAmount, &expense.Date, &expense.Paid,
			&expense.CreatedAt, &expense.CreatedBy, &expense.LastUpdatedAt, &expense.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// SaveExpense persists a new expense.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO expenses (
			expense_id, category, description, total_amount, date, paid,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		expense.ExpenseID, expense.Category, expense.Description, expense.TotalAmount, expense.Date, expense.Paid,
		expense.CreatedAt, expense.CreatedBy, expense.LastUpdatedAt, expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting expense: %w", err)
	}
	return nil
}

// MarkExpensePaid flags an expense as paid.
func (r *PgxExpenseRepository) MarkExpensePaid(ctx context.Context, expenseID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE expenses SET paid = true, last_updated_at = now() WHERE expense_id = $1`, expenseID)
	if err != nil {
		return fmt.Errorf("error marking expense paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
