package services

import (
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TotalsSvcFacade computes per-line and per-document GST totals. It is pure:
// identical inputs always yield identical outputs, and it is safe for
// concurrent use from multiple workers.
type TotalsSvcFacade interface {
	// ComputeTotals computes discount, taxable value, tax split and grand total
	// for a set of lines and charges. exchangeRate is the document's frozen rate
	// (1 for base-currency documents) and only affects DisplayTotal.
	ComputeTotals(lines []domain.LineItem, charges []domain.Charge, supplierState, posState string, exchangeRate decimal.Decimal) (*domain.DocumentTotals, error)
}
