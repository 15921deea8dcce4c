package dto

import (
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest records an operating expense.
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Paid        bool            `json:"paid"`
}

// ExpenseResponse is the API representation of an expense.
type ExpenseResponse struct {
	ExpenseID   string          `json:"expenseID"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Date        time.Time       `json:"date"`
	Paid        bool            `json:"paid"`
}

// NewExpenseResponse maps a domain expense to its API representation.
func NewExpenseResponse(expense *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:   expense.ExpenseID,
		Category:    expense.Category,
		Description: expense.Description,
		TotalAmount: expense.TotalAmount,
		Date:        expense.Date,
		Paid:        expense.Paid,
	}
}
