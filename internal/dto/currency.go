package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateQuery binds the from/to currency codes for a rate lookup.
type RateQuery struct {
	From string `form:"from" binding:"required,len=3,uppercase"`
	To   string `form:"to" binding:"required,len=3,uppercase"`
}

// ConvertRequest converts an amount between currencies.
type ConvertRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	From   string          `json:"from" binding:"required,len=3,uppercase"`
	To     string          `json:"to" binding:"required,len=3,uppercase"`
}

// RateResponse is the outcome of a rate lookup, including which source served it.
type RateResponse struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Rate       decimal.Decimal `json:"rate"`
	Source     string          `json:"source"` // IDENTITY, CACHE, LIVE or FALLBACK
	ResolvedAt time.Time       `json:"resolvedAt"`
}

// ConvertResponse is the outcome of a currency conversion.
type ConvertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Converted decimal.Decimal `json:"converted"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
}

// CreateExchangeRateRequest stores a manual exchange rate record.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}
