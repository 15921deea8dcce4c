package domain

import "github.com/shopspring/decimal"

// TaxSplit holds the GST components computed for a taxable base amount.
// Intra-state supplies carry CGST+SGST, inter-state supplies carry IGST;
// the two are mutually exclusive. Cess is independent of the split.
type TaxSplit struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
	Cess decimal.Decimal `json:"cess"`
}

// Total returns the sum of all tax components.
func (t TaxSplit) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST).Add(t.Cess)
}

// Add returns the component-wise sum of two splits.
func (t TaxSplit) Add(o TaxSplit) TaxSplit {
	return TaxSplit{
		CGST: t.CGST.Add(o.CGST),
		SGST: t.SGST.Add(o.SGST),
		IGST: t.IGST.Add(o.IGST),
		Cess: t.Cess.Add(o.Cess),
	}
}
