package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultRateCacheTTL = time.Hour

const defaultFetchTimeout = 5 * time.Second

// cachedRate is one cache entry, valid until fetchedAt+TTL.
type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// currencyService resolves exchange rates through a cache, a live source and a
// static fallback table. It is an explicit service object: cache and TTL are
// constructed with it and shared by reference, not process-global state.
type currencyService struct {
	BaseService

	mu    sync.RWMutex
	cache map[string]cachedRate

	ttl          time.Duration
	fetchTimeout time.Duration
	fetcher      portssvc.RateFetcher         // nil when no live source is configured
	fallback     map[string]decimal.Decimal   // keyed "FROM_TO"
	rateReader   portsrepo.ExchangeRateReader // optional durable cache tier
	rateWriter   portsrepo.ExchangeRateWriter // optional audit trail of live rates
	now          func() time.Time
}

// CurrencyServiceOption is a functional option for configuring the currency service
type CurrencyServiceOption func(*currencyService)

// WithRateCacheTTL overrides the cache validity window.
func WithRateCacheTTL(ttl time.Duration) CurrencyServiceOption {
	return func(s *currencyService) {
		s.ttl = ttl
	}
}

// WithFetchTimeout overrides the timeout applied to live rate fetches.
func WithFetchTimeout(timeout time.Duration) CurrencyServiceOption {
	return func(s *currencyService) {
		s.fetchTimeout = timeout
	}
}

// WithRateReader consults persisted rates when the in-memory cache misses, so
// a restarted process does not have to refetch every pair.
func WithRateReader(r portsrepo.ExchangeRateReader) CurrencyServiceOption {
	return func(s *currencyService) {
		s.rateReader = r
	}
}

// WithRateWriter persists successfully fetched live rates as an audit trail.
func WithRateWriter(w portsrepo.ExchangeRateWriter) CurrencyServiceOption {
	return func(s *currencyService) {
		s.rateWriter = w
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CurrencyServiceOption {
	return func(s *currencyService) {
		s.now = now
	}
}

// NewCurrencyService creates a new currency service. fetcher may be nil when no
// live source is configured; fallback holds approximate static rates keyed
// "FROM_TO".
func NewCurrencyService(fetcher portssvc.RateFetcher, fallback map[string]decimal.Decimal, options ...CurrencyServiceOption) portssvc.CurrencySvcFacade {
	svc := &currencyService{
		cache:        make(map[string]cachedRate),
		ttl:          defaultRateCacheTTL,
		fetchTimeout: defaultFetchTimeout,
		fetcher:      fetcher,
		fallback:     fallback,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure currencyService implements the CurrencySvcFacade interface
var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// GetRate resolves the rate for a pair. Resolution order: identity, fresh cache
// entry, live source, fallback table, then the same chain for the inverse pair
// inverted. An unresolvable pair yields ErrRateUnresolved rather than a guessed
// 1:1 rate.
func (s *currencyService) GetRate(ctx context.Context, fromCode, toCode string) (*domain.RateResolution, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	if fromCode == toCode {
		return &domain.RateResolution{Rate: decimal.NewFromInt(1), Source: domain.RateOriginIdentity}, nil
	}

	if res, ok := s.resolveDirect(ctx, fromCode, toCode); ok {
		return res, nil
	}

	// Attempt the inverse pair and invert it.
	if res, ok := s.resolveDirect(ctx, toCode, fromCode); ok {
		if res.Rate.IsZero() {
			return nil, fmt.Errorf("%w: inverse rate for %s/%s is zero", apperrors.ErrRateUnresolved, toCode, fromCode)
		}
		return &domain.RateResolution{
			Rate:   decimal.NewFromInt(1).Div(res.Rate),
			Source: res.Source,
		}, nil
	}

	return nil, fmt.Errorf("%w: no rate available for %s/%s", apperrors.ErrRateUnresolved, fromCode, toCode)
}

// Convert multiplies amount by the resolved rate for the pair.
func (s *currencyService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, *domain.RateResolution, error) {
	res, err := s.GetRate(ctx, fromCode, toCode)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return amount.Mul(res.Rate), res, nil
}

// resolveDirect runs the cache -> live -> fallback chain for one direction.
func (s *currencyService) resolveDirect(ctx context.Context, fromCode, toCode string) (*domain.RateResolution, bool) {
	key := fromCode + "_" + toCode

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return &domain.RateResolution{Rate: entry.rate, Source: domain.RateOriginCache}, true
	}

	if s.rateReader != nil {
		stored, err := s.rateReader.FindExchangeRate(ctx, fromCode, toCode)
		switch {
		case err == nil && s.now().Sub(stored.DateEffective) < s.ttl:
			s.mu.Lock()
			s.cache[key] = cachedRate{rate: stored.Rate, fetchedAt: stored.DateEffective}
			s.mu.Unlock()
			return &domain.RateResolution{Rate: stored.Rate, Source: domain.RateOriginCache}, true
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			s.LogWarn(ctx, "Failed to read persisted exchange rate",
				slog.String("from", fromCode),
				slog.String("to", toCode),
				slog.String("error", err.Error()))
		}
	}

	if s.fetcher != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		rate, err := s.fetcher.FetchRate(fetchCtx, fromCode, toCode)
		cancel()
		if err == nil && rate.GreaterThan(decimal.Zero) {
			s.mu.Lock()
			s.cache[key] = cachedRate{rate: rate, fetchedAt: s.now()}
			s.mu.Unlock()
			s.persistLiveRate(ctx, fromCode, toCode, rate)
			return &domain.RateResolution{Rate: rate, Source: domain.RateOriginLive}, true
		}
		if err != nil {
			s.LogWarn(ctx, "Live rate fetch failed, trying fallback table",
				slog.String("from", fromCode),
				slog.String("to", toCode),
				slog.String("error", err.Error()))
		}
	}

	if rate, ok := s.fallback[key]; ok {
		return &domain.RateResolution{Rate: rate, Source: domain.RateOriginFallback}, true
	}

	return nil, false
}

// persistLiveRate writes a fetched rate to storage, best effort.
func (s *currencyService) persistLiveRate(ctx context.Context, fromCode, toCode string, rate decimal.Decimal) {
	if s.rateWriter == nil {
		return
	}
	now := s.now()
	err := s.rateWriter.SaveExchangeRate(ctx, domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             rate,
		DateEffective:    now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	})
	if err != nil {
		s.LogWarn(ctx, "Failed to persist fetched exchange rate",
			slog.String("from", fromCode),
			slog.String("to", toCode),
			slog.String("error", err.Error()))
	}
}
