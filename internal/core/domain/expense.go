package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating expense outside the invoice/purchase flow.
type Expense struct {
	ExpenseID   string          `json:"expenseID"` // Primary Key (e.g., UUID)
	Category    string          `json:"category"`  // e.g. "Rent", "Utilities"
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Date        time.Time       `json:"date"`
	Paid        bool            `json:"paid"`
	AuditFields
}
