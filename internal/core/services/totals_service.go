package services

import (
	"fmt"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/utils/gst"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// totalsService implements the document totals calculator.
type totalsService struct{}

// NewTotalsService creates the totals calculator. It holds no state and is safe
// for concurrent use.
func NewTotalsService() portssvc.TotalsSvcFacade {
	return &totalsService{}
}

// Ensure totalsService implements the TotalsSvcFacade interface
var _ portssvc.TotalsSvcFacade = (*totalsService)(nil)

// ComputeTotals computes per-line discount, taxable value and tax split, then
// document aggregates with round-off. The GST split is decided once per
// document from the supplier and place-of-supply state codes.
func (s *totalsService) ComputeTotals(lines []domain.LineItem, charges []domain.Charge, supplierState, posState string, exchangeRate decimal.Decimal) (*domain.DocumentTotals, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: document must have at least one line item", apperrors.ErrValidation)
	}

	totals := &domain.DocumentTotals{
		Lines:        make([]domain.LineAmounts, 0, len(lines)),
		TaxableValue: decimal.Zero,
		Tax: domain.TaxSplit{
			CGST: decimal.Zero,
			SGST: decimal.Zero,
			IGST: decimal.Zero,
			Cess: decimal.Zero,
		},
	}

	for i, line := range lines {
		amounts, err := computeLine(line, supplierState, posState)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		totals.Lines = append(totals.Lines, amounts)
		totals.TaxableValue = totals.TaxableValue.Add(amounts.TaxableValue)
		totals.Tax = totals.Tax.Add(amounts.Tax)
	}

	for i, charge := range charges {
		if err := charge.Validate(); err != nil {
			return nil, fmt.Errorf("charge %d: %w", i+1, err)
		}
		totals.TaxableValue = totals.TaxableValue.Add(charge.Amount)
		if charge.Taxable {
			split, err := gst.Resolve(supplierState, posState, charge.Amount, charge.TaxRate, decimal.Zero)
			if err != nil {
				return nil, fmt.Errorf("charge %d: %w", i+1, err)
			}
			totals.Tax = totals.Tax.Add(split)
		}
	}

	unrounded := totals.TaxableValue.Add(totals.Tax.Total())
	totals.GrandTotal = roundHalfUp2(unrounded)
	totals.RoundOff = totals.GrandTotal.Sub(unrounded)

	rate := exchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	totals.DisplayTotal = totals.GrandTotal.Mul(rate)

	return totals, nil
}

// computeLine computes the amounts for one line.
func computeLine(line domain.LineItem, supplierState, posState string) (domain.LineAmounts, error) {
	if err := line.Validate(); err != nil {
		return domain.LineAmounts{}, err
	}

	gross := line.Quantity.Mul(line.UnitPrice)

	var discount decimal.Decimal
	switch line.DiscountType {
	case domain.DiscountPercent:
		if line.Discount.GreaterThan(hundred) {
			return domain.LineAmounts{}, fmt.Errorf("%w: discount percentage cannot exceed 100", apperrors.ErrValidation)
		}
		discount = gross.Mul(line.Discount).Div(hundred)
	default:
		// Flat amounts are clamped to the line gross; a discount can never
		// exceed what the line is worth.
		discount = line.Discount
		if discount.GreaterThan(gross) {
			discount = gross
		}
	}

	taxable := gross.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	split, err := gst.Resolve(supplierState, posState, taxable, line.TaxRate, line.CessRate)
	if err != nil {
		return domain.LineAmounts{}, err
	}

	return domain.LineAmounts{
		LineItemID:     line.LineItemID,
		Gross:          gross,
		DiscountAmount: discount,
		TaxableValue:   taxable,
		Tax:            split,
		LineTotal:      taxable.Add(split.Total()),
	}, nil
}

// roundHalfUp2 rounds to two decimals with ties going up, the statutory
// convention for invoice round-off.
func roundHalfUp2(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Add(half).Floor().Div(hundred)
}
