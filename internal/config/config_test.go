package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "RATES_REFRESH", "RATES_REFRESH_INTERVAL", "COOKIE_SECURE", "FIAT_RATES_URL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port: %q", cfg.Port)
	}
	if cfg.RatesRefreshInterval != 5*time.Minute {
		t.Fatalf("interval: %s", cfg.RatesRefreshInterval)
	}
	if cfg.FiatRatesURL != DefaultFiatRatesURL {
		t.Fatalf("fiat url: %q", cfg.FiatRatesURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATES_REFRESH", "false")
	t.Setenv("RATES_REFRESH_INTERVAL", "30s")
	t.Setenv("COOKIE_SECURE", "true")
	cfg := Load()
	if cfg.Port != "9090" || cfg.RatesRefresh || !cfg.CookieSecure {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RatesRefreshInterval != 30*time.Second {
		t.Fatalf("interval: %s", cfg.RatesRefreshInterval)
	}
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("X_INTERVAL", "soon")
	if d := getEnvDuration("X_INTERVAL", time.Minute); d != time.Minute {
		t.Fatalf("got %s", d)
	}
	t.Setenv("X_INTERVAL", "-5s")
	if d := getEnvDuration("X_INTERVAL", time.Minute); d != time.Minute {
		t.Fatalf("negative: %s", d)
	}
}
