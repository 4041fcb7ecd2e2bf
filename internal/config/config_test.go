package config

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadFrom(context.Background(), envconfig.MapLookuper(env))
}

// TestLoadFrom_Defaults applies every default with an empty environment.
func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.MetricsAddr != "127.0.0.1:9090" {
		t.Errorf("MetricsAddr = %q, want loopback only", cfg.MetricsAddr)
	}
	if cfg.Session.Backend != "memory" || cfg.Session.RedisAddr != "localhost:6379" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("API.Timeout = %v, want 0", cfg.API.Timeout)
	}
	if cfg.SlowRequest != 200*time.Millisecond {
		t.Errorf("SlowRequest = %v", cfg.SlowRequest)
	}
	if !strings.HasPrefix(cfg.CheckoutFallback(), "https://buy.stripe.com/") {
		t.Errorf("CheckoutFallback = %q", cfg.CheckoutFallback())
	}
	if cfg.IsProduction() {
		t.Error("default env must not be production")
	}
	if cfg.CSRFKeyBytes() != nil {
		t.Error("CSRFKeyBytes should be nil when unset")
	}
	if cfg.Location().String() != "America/Sao_Paulo" {
		t.Errorf("Location = %v", cfg.Location())
	}
}

// TestLoadFrom_Overrides reads every nested section.
func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"RECEITAS_ENV":             "production",
		"RECEITAS_CSRF_KEY":        testKey,
		"RECEITAS_SESSION_BACKEND": "redis",
		"RECEITAS_SESSION_KEY":     testKey,
		"RECEITAS_API_BASE_URL":    "https://api.example.com",
		"RECEITAS_API_TIMEOUT":     "3s",
		"RECEITAS_CHECKOUT_URL":    "none",
		"RECEITAS_LOG_LEVEL":       "debug",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction = false")
	}
	if cfg.API.BaseURL != "https://api.example.com" || cfg.API.Timeout != 3*time.Second {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.CheckoutFallback() != "" {
		t.Errorf("CheckoutFallback = %q, want disabled", cfg.CheckoutFallback())
	}
	if len(cfg.CSRFKeyBytes()) != 32 || len(cfg.SealingKeyBytes()) != 32 {
		t.Error("keys not decoded to 32 bytes")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

// TestLoadFrom_Invalid rejects settings that would fail at runtime.
func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown backend":      {"RECEITAS_SESSION_BACKEND": "memcached"},
		"production no csrf":   {"RECEITAS_ENV": "production"},
		"short csrf key":       {"RECEITAS_CSRF_KEY": "abcd"},
		"non-hex sealing key":  {"RECEITAS_SESSION_KEY": strings.Repeat("z", 64)},
		"zero rate limit":      {"RECEITAS_RATE_LIMIT": "0"},
		"unparseable duration": {"RECEITAS_API_TIMEOUT": "soon"},
		"unknown timezone":     {"RECEITAS_TIMEZONE": "Mars/Olympus"},
		"production redis no sealing key": {
			"RECEITAS_ENV":             "production",
			"RECEITAS_CSRF_KEY":        testKey,
			"RECEITAS_SESSION_BACKEND": "redis",
		},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := load(t, env); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestSlogLevel_Fallback uses info for unknown levels.
func TestSlogLevel_Fallback(t *testing.T) {
	c := &Config{LogLevel: "chatty"}
	if c.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel = %v, want info", c.SlogLevel())
	}
}
