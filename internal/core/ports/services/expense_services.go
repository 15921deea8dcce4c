package services

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/gstbooks/gst_billing_app/internal/dto"
)

// ExpenseSvcFacade records operating expenses outside the invoice flow.
type ExpenseSvcFacade interface {
	// CreateExpense records a new expense.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)

	// GetExpenseByID retrieves an expense by its ID.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses, newest first.
	ListExpenses(ctx context.Context, limit, offset int) ([]domain.Expense, error)

	// MarkExpensePaid flags an expense as paid so it enters the cash-flow view.
	MarkExpensePaid(ctx context.Context, expenseID string, userID string) error
}
