package domain

import (
	"fmt"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DiscountType indicates whether a line discount is a percentage or a flat amount.
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

// LineItem represents a single row on a document or recurring template.
// It belongs to exactly one owner; tax amounts are computed, never stored here.
type LineItem struct {
	LineItemID   string          `json:"lineItemID"` // Primary Key (e.g., UUID)
	DocumentID   string          `json:"documentID"` // FK -> Document.documentID (Not Null)
	ProductID    string          `json:"productID"`  // Nullable FK -> products
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	DiscountType DiscountType    `json:"discountType"` // PERCENT or AMOUNT
	Discount     decimal.Decimal `json:"discount"`     // Percentage or flat amount per DiscountType
	TaxRate      decimal.Decimal `json:"taxRate"`      // Percent, e.g. 18
	CessRate     decimal.Decimal `json:"cessRate"`     // Percent, usually 0
	IsService    bool            `json:"isService"`    // SAC vs HSN classification
	AuditFields
}

// Validate checks the line for values that would corrupt document arithmetic.
func (li LineItem) Validate() error {
	if li.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity cannot be negative", apperrors.ErrValidation)
	}
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", apperrors.ErrValidation)
	}
	if li.Discount.IsNegative() {
		return fmt.Errorf("%w: discount cannot be negative", apperrors.ErrValidation)
	}
	switch li.DiscountType {
	case DiscountPercent, DiscountAmount, "":
	default:
		return fmt.Errorf("%w: unknown discount type %q", apperrors.ErrValidation, li.DiscountType)
	}
	if li.TaxRate.IsNegative() || li.CessRate.IsNegative() {
		return fmt.Errorf("%w: tax rates cannot be negative", apperrors.ErrValidation)
	}
	return nil
}

// Charge is a document-level additional charge (shipping, packing, etc.).
// Each charge is independently taxable per its own flag and rate.
type Charge struct {
	ChargeID   string          `json:"chargeID"` // Primary Key (e.g., UUID)
	DocumentID string          `json:"documentID"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Taxable    bool            `json:"taxable"`
	TaxRate    decimal.Decimal `json:"taxRate"` // Percent; ignored when Taxable is false
	AuditFields
}

// Validate checks the charge for values that would corrupt document arithmetic.
func (c Charge) Validate() error {
	if c.Amount.IsNegative() {
		return fmt.Errorf("%w: charge amount cannot be negative", apperrors.ErrValidation)
	}
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("%w: charge tax rate cannot be negative", apperrors.ErrValidation)
	}
	return nil
}
