package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceType is the cadence of a recurring template.
type RecurrenceType string

const (
	RecurWeekly  RecurrenceType = "WEEKLY"
	RecurMonthly RecurrenceType = "MONTHLY"
	RecurYearly  RecurrenceType = "YEARLY"
)

// RecurringTemplate owns a set of template rows and a generation cadence.
// NextGenerationDate is monotonically non-decreasing and always after the date
// of the last document it produced.
type RecurringTemplate struct {
	TemplateID         string          `json:"templateID"` // Primary Key (e.g., UUID)
	Name               string          `json:"name"`
	PartyID            string          `json:"partyID"` // FK -> Party.partyID (Not Null)
	PlaceOfSupplyState string          `json:"placeOfSupplyState"`
	CurrencyCode       string          `json:"currencyCode"`
	Terms              string          `json:"terms"` // Payment terms, e.g. "Net 30"
	RecurrenceType     RecurrenceType  `json:"recurrenceType"`
	RecurrenceInterval int             `json:"recurrenceInterval"` // >= 1
	StartDate          time.Time       `json:"startDate"`
	EndDate            *time.Time      `json:"endDate"` // Nullable; nil means open-ended
	NextGenerationDate time.Time       `json:"nextGenerationDate"`
	IsActive           bool            `json:"isActive"`
	Items              []TemplateItem  `json:"items"`
	AuditFields
}

// TemplateItem is a LineItem-like row owned by a recurring template.
type TemplateItem struct {
	TemplateItemID string          `json:"templateItemID"` // Primary Key (e.g., UUID)
	TemplateID     string          `json:"templateID"`     // FK -> RecurringTemplate.templateID
	ProductID      string          `json:"productID"`      // Nullable FK -> products
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountType   DiscountType    `json:"discountType"`
	Discount       decimal.Decimal `json:"discount"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	CessRate       decimal.Decimal `json:"cessRate"`
	IsService      bool            `json:"isService"`
}

// TemplateFailure records why one template was skipped during a scheduler run.
type TemplateFailure struct {
	TemplateID string `json:"templateID"`
	Reason     string `json:"reason"`
}

// RunReport is the outcome of one scheduler invocation. Per-template failures
// are collected here rather than aborting the run.
type RunReport struct {
	Generated []string          `json:"generated"` // Document IDs created this run
	Failed    []TemplateFailure `json:"failed"`
}
