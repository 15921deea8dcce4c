package services_test

import (
	"testing"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/gstbooks/gst_billing_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeTotals_IntraStateInvoice(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{
			LineItemID: "li-1",
			Quantity:   d("10"),
			UnitPrice:  d("1000"),
			TaxRate:    d("18"),
		},
	}

	totals, err := svc.ComputeTotals(lines, nil, "27", "27", decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.True(t, totals.TaxableValue.Equal(d("10000")), "taxable value: %s", totals.TaxableValue)
	assert.True(t, totals.Tax.CGST.Equal(d("900")), "cgst: %s", totals.Tax.CGST)
	assert.True(t, totals.Tax.SGST.Equal(d("900")), "sgst: %s", totals.Tax.SGST)
	assert.True(t, totals.Tax.IGST.IsZero(), "igst: %s", totals.Tax.IGST)
	assert.True(t, totals.GrandTotal.Equal(d("11800")), "grand total: %s", totals.GrandTotal)
	assert.True(t, totals.RoundOff.IsZero(), "round off: %s", totals.RoundOff)
}

func TestComputeTotals_InterStateInvoice(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("10"), UnitPrice: d("1000"), TaxRate: d("18")},
	}

	totals, err := svc.ComputeTotals(lines, nil, "27", "29", decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.True(t, totals.Tax.CGST.IsZero())
	assert.True(t, totals.Tax.SGST.IsZero())
	assert.True(t, totals.Tax.IGST.Equal(d("1800")), "igst: %s", totals.Tax.IGST)
	assert.True(t, totals.GrandTotal.Equal(d("11800")))
}

func TestComputeTotals_Idempotent(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("3"), UnitPrice: d("333.33"), TaxRate: d("18"), DiscountType: domain.DiscountPercent, Discount: d("7.5")},
		{LineItemID: "li-2", Quantity: d("1"), UnitPrice: d("49.99"), TaxRate: d("12"), CessRate: d("1")},
	}
	charges := []domain.Charge{
		{ChargeID: "ch-1", Name: "Shipping", Amount: d("120"), Taxable: true, TaxRate: d("18")},
	}

	first, err := svc.ComputeTotals(lines, charges, "27", "27", decimal.NewFromInt(1))
	require.NoError(t, err)
	second, err := svc.ComputeTotals(lines, charges, "27", "27", decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.TaxableValue.Equal(second.TaxableValue))
	assert.True(t, first.RoundOff.Equal(second.RoundOff))
}

func TestComputeTotals_RoundOffWithinHalfRupee(t *testing.T) {
	svc := services.NewTotalsService()

	// 3 x 33.33 @ 18% = 99.99 + 17.9982 = 117.9882, rounds to 117.99.
	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("3"), UnitPrice: d("33.33"), TaxRate: d("18")},
	}

	totals, err := svc.ComputeTotals(lines, nil, "27", "29", decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.True(t, totals.GrandTotal.Equal(d("117.99")), "grand total: %s", totals.GrandTotal)
	assert.True(t, totals.RoundOff.Abs().LessThan(d("0.5")), "round off out of range: %s", totals.RoundOff)
	// Grand total must equal the unrounded sum plus the recorded round-off.
	unrounded := totals.TaxableValue.Add(totals.Tax.Total())
	assert.True(t, unrounded.Add(totals.RoundOff).Equal(totals.GrandTotal))
}

func TestComputeTotals_PercentDiscount(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("2"), UnitPrice: d("500"), DiscountType: domain.DiscountPercent, Discount: d("10"), TaxRate: d("18")},
	}

	totals, err := svc.ComputeTotals(lines, nil, "27", "27", decimal.NewFromInt(1))
	require.NoError(t, err)

	// 1000 gross, 100 off, 900 taxable, 162 tax.
	assert.True(t, totals.TaxableValue.Equal(d("900")))
	assert.True(t, totals.GrandTotal.Equal(d("1062")))
}

func TestComputeTotals_PercentDiscountOver100Rejected(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("1"), UnitPrice: d("100"), DiscountType: domain.DiscountPercent, Discount: d("101")},
	}

	_, err := svc.ComputeTotals(lines, nil, "27", "27", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComputeTotals_FlatDiscountClampedToGross(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("1"), UnitPrice: d("100"), DiscountType: domain.DiscountAmount, Discount: d("150"), TaxRate: d("18")},
	}

	totals, err := svc.ComputeTotals(lines, nil, "27", "27", decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.True(t, totals.TaxableValue.IsZero(), "taxable value: %s", totals.TaxableValue)
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotals_UntaxedChargeAddsNoTax(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("18")},
	}
	charges := []domain.Charge{
		{ChargeID: "ch-1", Name: "Packing", Amount: d("50"), Taxable: false, TaxRate: d("18")},
	}

	totals, err := svc.ComputeTotals(lines, charges, "27", "27", decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.True(t, totals.TaxableValue.Equal(d("150")))
	assert.True(t, totals.Tax.Total().Equal(d("18")), "tax: %s", totals.Tax.Total())
}

func TestComputeTotals_NoLinesRejected(t *testing.T) {
	svc := services.NewTotalsService()

	_, err := svc.ComputeTotals(nil, nil, "27", "27", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComputeTotals_MissingStateCodeRejected(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("18")},
	}

	_, err := svc.ComputeTotals(lines, nil, "", "27", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestComputeTotals_DisplayTotalUsesExchangeRate(t *testing.T) {
	svc := services.NewTotalsService()

	lines := []domain.LineItem{
		{LineItemID: "li-1", Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("18")},
	}

	totals, err := svc.ComputeTotals(lines, nil, "27", "27", d("83"))
	require.NoError(t, err)

	assert.True(t, totals.GrandTotal.Equal(d("118")))
	assert.True(t, totals.DisplayTotal.Equal(d("9794")), "display total: %s", totals.DisplayTotal)
}
