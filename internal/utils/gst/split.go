// Package gst implements the GST tax-split arithmetic shared by services and
// the recurring scheduler.
package gst

import (
	"fmt"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Resolve decides the CGST+SGST vs IGST split for a taxable base amount.
// Matching supplier and place-of-supply state codes mean an intra-state supply:
// the tax rate splits evenly into CGST and SGST and IGST stays zero. Different
// codes mean inter-state: the whole rate goes to IGST. Cess applies either way.
// The decision is binary per document; mixed splits are never produced.
func Resolve(supplierState, posState string, base, taxRate, cessRate decimal.Decimal) (domain.TaxSplit, error) {
	if supplierState == "" {
		return domain.TaxSplit{}, fmt.Errorf("%w: supplier state code is not configured", apperrors.ErrConfiguration)
	}
	if posState == "" {
		// A missing place of supply must never silently default to inter-state.
		return domain.TaxSplit{}, fmt.Errorf("%w: place-of-supply state code is missing", apperrors.ErrConfiguration)
	}

	split := domain.TaxSplit{
		CGST: decimal.Zero,
		SGST: decimal.Zero,
		IGST: decimal.Zero,
		Cess: base.Mul(cessRate).Div(hundred),
	}

	if supplierState == posState {
		half := base.Mul(taxRate).Div(hundred).Div(decimal.NewFromInt(2))
		split.CGST = half
		split.SGST = half
	} else {
		split.IGST = base.Mul(taxRate).Div(hundred)
	}
	return split, nil
}
