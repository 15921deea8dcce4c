package repositories

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
)

// ExpenseReader defines read operations for expense records
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense by its ID.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses, newest first.
	ListExpenses(ctx context.Context, limit, offset int) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense records
type ExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// MarkExpensePaid flags an expense as paid.
	MarkExpensePaid(ctx context.Context, expenseID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
