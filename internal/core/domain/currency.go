package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "INR")
	Symbol       string `json:"symbol"`       // e.g., "₹"
	Name         string `json:"name"`         // e.g., "Indian Rupee"
	AuditFields
}

// RateOrigin identifies which source resolved an exchange rate.
type RateOrigin string

const (
	RateOriginIdentity RateOrigin = "IDENTITY" // same-currency pair
	RateOriginCache    RateOrigin = "CACHE"
	RateOriginLive     RateOrigin = "LIVE"
	RateOriginFallback RateOrigin = "FALLBACK"
)

// RateResolution is the typed outcome of a rate lookup. Callers can distinguish
// a live rate from a fallback without error-driven branching; an unresolvable
// pair is reported as apperrors.ErrRateUnresolved, never as a silent 1:1.
type RateResolution struct {
	Rate   decimal.Decimal `json:"rate"`
	Source RateOrigin      `json:"source"`
}

// ExchangeRate is a stored rate between two currencies, effective from a date.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (e.g., UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Positive; precise decimal type
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
