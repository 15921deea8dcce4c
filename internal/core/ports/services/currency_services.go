package services

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateFetcher is the port to a live exchange-rate source. Implementations must
// honour context deadlines; the calling service applies its own timeout.
type RateFetcher interface {
	// FetchRate retrieves a live rate for the pair, or an error wrapping
	// apperrors.ErrExternalService when the source is unavailable.
	FetchRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error)
}

// CurrencySvcFacade resolves and applies exchange rates.
type CurrencySvcFacade interface {
	// GetRate resolves the rate for a pair: identity, cache, live source,
	// fallback table, then inverse pair, in that order. An unresolvable pair
	// yields apperrors.ErrRateUnresolved.
	GetRate(ctx context.Context, fromCode, toCode string) (*domain.RateResolution, error)

	// Convert multiplies amount by the resolved rate for the pair.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, *domain.RateResolution, error)
}
