package domain_test

import (
	"testing"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineItemValidate(t *testing.T) {
	valid := domain.LineItem{
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(100),
		TaxRate:   decimal.NewFromInt(18),
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*domain.LineItem)
	}{
		{"negative quantity", func(li *domain.LineItem) { li.Quantity = decimal.NewFromInt(-1) }},
		{"negative unit price", func(li *domain.LineItem) { li.UnitPrice = decimal.NewFromInt(-5) }},
		{"negative discount", func(li *domain.LineItem) { li.Discount = decimal.NewFromInt(-1) }},
		{"unknown discount type", func(li *domain.LineItem) { li.DiscountType = "HALF_OFF" }},
		{"negative tax rate", func(li *domain.LineItem) { li.TaxRate = decimal.NewFromInt(-18) }},
		{"negative cess rate", func(li *domain.LineItem) { li.CessRate = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := valid
			tt.mutate(&li)
			assert.ErrorIs(t, li.Validate(), apperrors.ErrValidation)
		})
	}
}

func TestChargeValidate(t *testing.T) {
	valid := domain.Charge{Name: "Shipping", Amount: decimal.NewFromInt(100)}
	assert.NoError(t, valid.Validate())

	negative := domain.Charge{Name: "Shipping", Amount: decimal.NewFromInt(-1)}
	assert.ErrorIs(t, negative.Validate(), apperrors.ErrValidation)

	badRate := domain.Charge{Name: "Shipping", Amount: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(-18)}
	assert.ErrorIs(t, badRate.Validate(), apperrors.ErrValidation)
}

func TestTaxSplitTotalAndAdd(t *testing.T) {
	a := domain.TaxSplit{CGST: decimal.NewFromInt(90), SGST: decimal.NewFromInt(90)}
	b := domain.TaxSplit{IGST: decimal.NewFromInt(50), Cess: decimal.NewFromInt(10)}

	sum := a.Add(b)
	assert.True(t, sum.CGST.Equal(decimal.NewFromInt(90)))
	assert.True(t, sum.IGST.Equal(decimal.NewFromInt(50)))
	assert.True(t, sum.Total().Equal(decimal.NewFromInt(240)))
}

func TestFinancialPeriodContains(t *testing.T) {
	period := domain.FinancialPeriod{
		StartDate: mustDate("2024-04-01"),
		EndDate:   mustDate("2025-03-31"),
	}

	assert.True(t, period.Contains(mustDate("2024-04-01")))
	assert.True(t, period.Contains(mustDate("2025-03-31")))
	assert.True(t, period.Contains(mustDate("2024-10-15")))
	assert.False(t, period.Contains(mustDate("2024-03-31")))
	assert.False(t, period.Contains(mustDate("2025-04-01")))
}
