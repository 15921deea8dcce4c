package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialPeriod is a (start, end] query window for statements. It is a query
// parameter, never persisted.
type FinancialPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Contains reports whether d falls within the period (inclusive bounds).
func (p FinancialPeriod) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// ProfitAndLossStatement is the P&L over a period.
type ProfitAndLossStatement struct {
	Period            FinancialPeriod `json:"period"`
	Revenue           decimal.Decimal `json:"revenue"`
	CostOfGoodsSold   decimal.Decimal `json:"costOfGoodsSold"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	OperatingProfit   decimal.Decimal `json:"operatingProfit"`
	Tax               decimal.Decimal `json:"tax"` // Zero when operating profit is not positive
	NetProfit         decimal.Decimal `json:"netProfit"`
}

// BalanceSheetStatement is the balance sheet as of a date. Equity is derived as
// assets minus liabilities, so the accounting identity holds by construction.
type BalanceSheetStatement struct {
	AsOf               time.Time       `json:"asOf"`
	CashAndBank        decimal.Decimal `json:"cashAndBank"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable"`
	InventoryValue     decimal.Decimal `json:"inventoryValue"`
	TotalAssets        decimal.Decimal `json:"totalAssets"`
	AccountsPayable    decimal.Decimal `json:"accountsPayable"`
	TotalLiabilities   decimal.Decimal `json:"totalLiabilities"`
	Equity             decimal.Decimal `json:"equity"`
}

// CashFlowStatement is the cash flow over a period.
type CashFlowStatement struct {
	Period           FinancialPeriod `json:"period"`
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	Operating        decimal.Decimal `json:"operating"`
	Investing        decimal.Decimal `json:"investing"`
	Financing        decimal.Decimal `json:"financing"`
	NetCashFlow      decimal.Decimal `json:"netCashFlow"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"`
	PaymentsReceived decimal.Decimal `json:"paymentsReceived"`
	PaymentsPaid     decimal.Decimal `json:"paymentsPaid"`
	ExpensesPaid     decimal.Decimal `json:"expensesPaid"`
}
