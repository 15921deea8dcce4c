// Package ratesource provides exchange-rate inputs for the currency service:
// an HTTP client for a live rate API and a YAML-backed fallback table.
package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Client fetches exchange rates from an external HTTP API. The API is
// expected to answer GET {baseURL}?base=FROM&symbols=TO with a JSON body of
// the form {"base":"USD","rates":{"INR":83.10}}.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ portssvc.RateFetcher = (*Client)(nil)

// NewClient creates a rate API client. A zero timeout defaults to 30 seconds;
// per-call deadlines come from the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type rateResponse struct {
	Base  string                 `json:"base"`
	Rates map[string]json.Number `json:"rates"`
}

// FetchRate retrieves the multiplier from one currency to another. Any
// transport, status, or payload problem is reported as an external-service
// error so the caller can fall through to its other sources.
func (c *Client) FetchRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("base", fromCurrency)
	query.Set("symbols", toCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, query.Encode()), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to create rate request: %v", apperrors.ErrExternalService, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: rate request failed: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: rate API returned status %d", apperrors.ErrExternalService, resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to decode rate response: %v", apperrors.ErrExternalService, err)
	}

	raw, ok := body.Rates[toCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: rate API response missing %s", apperrors.ErrExternalService, toCurrency)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid rate value %q: %v", apperrors.ErrExternalService, raw.String(), err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s for %s/%s", apperrors.ErrExternalService, rate, fromCurrency, toCurrency)
	}
	return rate, nil
}
