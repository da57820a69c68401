package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	StaticDir    string
	TemplatesDir string
	LogFile      string

	AdminEmail    string
	AdminPassword string

	RatesRefresh         bool
	RatesRefreshInterval time.Duration
	CryptoRatesURL       string
	FiatRatesURL         string

	CookieSecure bool
}

const (
	DefaultCryptoRatesURL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum,tether&vs_currencies=usd"
	DefaultFiatRatesURL   = "https://api.exchangerate-api.com/v4/latest/USD"
)

func Load() Config {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		DBDSN:                getEnv("DB_DSN", "file:mathiphone.db?_pragma=foreign_keys(1)"),
		StaticDir:            getEnv("STATIC_DIR", "./web/static"),
		TemplatesDir:         getEnv("TEMPLATES_DIR", "./web/templates"),
		LogFile:              getEnv("LOG_FILE", "./mathiphone.log"),
		AdminEmail:           getEnv("ADMIN_EMAIL", ""),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
		RatesRefresh:         getEnvBool("RATES_REFRESH", true),
		RatesRefreshInterval: getEnvDuration("RATES_REFRESH_INTERVAL", 5*time.Minute),
		CryptoRatesURL:       getEnv("CRYPTO_RATES_URL", DefaultCryptoRatesURL),
		FiatRatesURL:         getEnv("FIAT_RATES_URL", DefaultFiatRatesURL),
		CookieSecure:         getEnvBool("COOKIE_SECURE", false),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s STATIC_DIR=%s TEMPLATES_DIR=%s LOG_FILE=%s RATES_REFRESH=%t every %s ADMIN_EMAIL=%s",
		cfg.Port, cfg.DBDSN, cfg.StaticDir, cfg.TemplatesDir, cfg.LogFile, cfg.RatesRefresh, cfg.RatesRefreshInterval, cfg.AdminEmail)
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("[config] %s=%q is not a boolean, using %t", key, v, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("[config] %s=%q is not a positive duration, using %s", key, v, fallback)
	}
	return fallback
}
