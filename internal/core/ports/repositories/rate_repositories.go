package repositories

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
)

// ExchangeRateReader defines read operations for persisted exchange rates
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the latest stored rate between two currencies.
	FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for persisted exchange rates
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate record.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange-rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
