package ratesource

import (
	"fmt"
	"os"
	"strings"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fallbackFile struct {
	Rates map[string]string `yaml:"rates"`
}

// LoadFallbackRates reads the static rate table used when the live API is
// unreachable. Keys are "FROM_TO" currency pairs, values are decimal strings.
// An empty path means no fallback table is configured.
func LoadFallbackRates(path string) (map[string]decimal.Decimal, error) {
	if path == "" {
		return map[string]decimal.Decimal{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fallback rates file: %v", apperrors.ErrConfiguration, err)
	}

	var file fallbackFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fallback rates file: %v", apperrors.ErrConfiguration, err)
	}

	rates := make(map[string]decimal.Decimal, len(file.Rates))
	for pair, value := range file.Rates {
		key := strings.ToUpper(strings.TrimSpace(pair))
		parts := strings.Split(key, "_")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("%w: invalid fallback rate pair %q", apperrors.ErrConfiguration, pair)
		}
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid fallback rate for %q: %v", apperrors.ErrConfiguration, pair, err)
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: non-positive fallback rate for %q", apperrors.ErrConfiguration, pair)
		}
		rates[key] = rate
	}
	return rates, nil
}
