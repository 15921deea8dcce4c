package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType distinguishes sales invoices from purchase bills.
type DocumentType string

const (
	DocumentInvoice  DocumentType = "INVOICE"
	DocumentPurchase DocumentType = "PURCHASE"
)

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	StatusDraft         DocumentStatus = "DRAFT"
	StatusSent          DocumentStatus = "SENT"
	StatusPartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	StatusPaid          DocumentStatus = "PAID"
	StatusOverdue       DocumentStatus = "OVERDUE"
	StatusCancelled     DocumentStatus = "CANCELLED"
)

// Document is an invoice or purchase bill: header, ordered lines, and computed
// aggregates. Aggregates are recomputed whenever lines change, never hand-edited;
// BalanceAmount is mutated only by recording a Payment.
type Document struct {
	DocumentID          string          `json:"documentID"` // Primary Key (e.g., UUID)
	DocumentType        DocumentType    `json:"documentType"`
	DocumentNumber      string          `json:"documentNumber"` // Human-facing sequence, e.g. INV-2024-0042
	PartyID             string          `json:"partyID"`        // FK -> Party.partyID (Not Null)
	Date                time.Time       `json:"date"`
	DueDate             time.Time       `json:"dueDate"`
	PlaceOfSupplyState  string          `json:"placeOfSupplyState"` // GST state code; document-level attribute
	CurrencyCode        string          `json:"currencyCode"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"` // Frozen at creation; 1 for base currency
	Lines               []LineItem      `json:"lines"`
	Charges             []Charge        `json:"charges"`
	TaxableValue        decimal.Decimal `json:"taxableValue"`
	CGST                decimal.Decimal `json:"cgst"`
	SGST                decimal.Decimal `json:"sgst"`
	IGST                decimal.Decimal `json:"igst"`
	Cess                decimal.Decimal `json:"cess"`
	RoundOff            decimal.Decimal `json:"roundOff"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
	PaidAmount          decimal.Decimal `json:"paidAmount"`
	BalanceAmount       decimal.Decimal `json:"balanceAmount"`
	Status              DocumentStatus  `json:"status"`
	RecurringTemplateID string          `json:"recurringTemplateID"` // Nullable; set when generated from a template
	AuditFields
}

// LineAmounts holds the computed amounts for a single line.
type LineAmounts struct {
	LineItemID     string          `json:"lineItemID"`
	Gross          decimal.Decimal `json:"gross"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableValue   decimal.Decimal `json:"taxableValue"`
	Tax            TaxSplit        `json:"tax"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// DocumentTotals is the full computed aggregate set for a document.
// GrandTotal is the rounded total; GrandTotal minus RoundOff reproduces the
// unrounded sum of taxable value and all tax components.
type DocumentTotals struct {
	Lines        []LineAmounts   `json:"lines"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	Tax          TaxSplit        `json:"tax"`
	RoundOff     decimal.Decimal `json:"roundOff"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	// DisplayTotal is GrandTotal multiplied by the document's frozen exchange
	// rate, for documents not denominated in the base currency. Statutory GST
	// amounts always stay in the document currency.
	DisplayTotal decimal.Decimal `json:"displayTotal"`
}
