package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// GST / accounting settings
	BaseCurrency      string
	SupplierStateCode string
	StatutoryTaxRate  decimal.Decimal // fraction, e.g. 0.25

	// Exchange-rate resolution
	RateCacheTTL      time.Duration
	RateSourceURL     string
	RateSourceTimeout time.Duration
	FallbackRatesPath string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("BASE_CURRENCY", "INR")
	viper.SetDefault("SUPPLIER_STATE_CODE", "")
	viper.SetDefault("STATUTORY_TAX_RATE", "0.25")
	viper.SetDefault("RATE_CACHE_TTL", "1h")
	viper.SetDefault("RATE_SOURCE_URL", "")
	viper.SetDefault("RATE_SOURCE_TIMEOUT", "5s")
	viper.SetDefault("FALLBACK_RATES_PATH", "fallback_rates.yaml")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.SupplierStateCode = viper.GetString("SUPPLIER_STATE_CODE")
	if cfg.SupplierStateCode == "" {
		log.Println("Warning: SUPPLIER_STATE_CODE not set. GST split computation will reject all documents.")
	}

	rateStr := viper.GetString("STATUTORY_TAX_RATE")
	statutoryRate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STATUTORY_TAX_RATE %q: %w", rateStr, err)
	}
	cfg.StatutoryTaxRate = statutoryRate

	ttlStr := viper.GetString("RATE_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = time.Hour
		if ttlStr != "" {
			log.Printf("Warning: Invalid value for RATE_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl)
		}
	}
	cfg.RateCacheTTL = ttl

	timeoutStr := viper.GetString("RATE_SOURCE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 5 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for RATE_SOURCE_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
		}
	}
	cfg.RateSourceTimeout = timeout

	cfg.RateSourceURL = viper.GetString("RATE_SOURCE_URL")
	if cfg.RateSourceURL == "" {
		log.Println("Warning: RATE_SOURCE_URL not set. Rate resolution will rely on the fallback table.")
	}
	cfg.FallbackRatesPath = viper.GetString("FALLBACK_RATES_PATH")

	return cfg, nil
}
