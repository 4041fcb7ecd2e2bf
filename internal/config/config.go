// Package config loads runtime settings from the environment.
// An optional .env file in the working directory is read first; real
// environment variables always win.
package config

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // display zone must load on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DisabledCheckoutFallback turns off the static checkout fallback when used as CheckoutURL.
const DisabledCheckoutFallback = "none"

// Config holds every setting the server reads at startup.
type Config struct {
	Addr        string        `env:"RECEITAS_ADDR, default=:8080"`
	MetricsAddr string        `env:"RECEITAS_METRICS_ADDR, default=127.0.0.1:9090"`
	Env         string        `env:"RECEITAS_ENV, default=development"`
	LogLevel    string        `env:"RECEITAS_LOG_LEVEL, default=info"`
	DBPath      string        `env:"RECEITAS_DB_PATH, default=receitas.db"`
	CSRFKey     string        `env:"RECEITAS_CSRF_KEY"`
	RateLimit   int           `env:"RECEITAS_RATE_LIMIT, default=10"`
	SlowRequest time.Duration `env:"RECEITAS_SLOW_REQUEST, default=200ms"`
	SlowQuery   time.Duration `env:"RECEITAS_SLOW_QUERY, default=50ms"`
	Timezone    string        `env:"RECEITAS_TIMEZONE, default=America/Sao_Paulo"`

	API      APIConfig
	Checkout CheckoutConfig
	Session  SessionConfig
	Email    EmailConfig
}

// APIConfig locates the remote recipes service.
type APIConfig struct {
	BaseURL   string        `env:"RECEITAS_API_BASE_URL"`
	PublicURL string        `env:"RECEITAS_PUBLIC_URL"`
	Timeout   time.Duration `env:"RECEITAS_API_TIMEOUT, default=0s"`
}

// CheckoutConfig holds the static checkout link used when the API cannot create a session.
type CheckoutConfig struct {
	FallbackURL string `env:"RECEITAS_CHECKOUT_URL, default=https://buy.stripe.com/test_6oUdRb0Kp3kj9Zxf5KafS00"`
}

// SessionConfig selects the session backend.
type SessionConfig struct {
	Backend       string `env:"RECEITAS_SESSION_BACKEND, default=memory"`
	RedisAddr     string `env:"RECEITAS_REDIS_ADDR, default=localhost:6379"`
	RedisPassword string `env:"RECEITAS_REDIS_PASSWORD"`
	RedisDB       int    `env:"RECEITAS_REDIS_DB, default=0"`
	SealingKey    string `env:"RECEITAS_SESSION_KEY"`
}

// EmailConfig configures suggestion delivery. An empty ResendKey selects the noop sender.
type EmailConfig struct {
	ResendKey     string `env:"RECEITAS_RESEND_KEY"`
	From          string `env:"RECEITAS_EMAIL_FROM, default=1000 Receitas de Amor <contato@receitasdeamor.com.br>"`
	SuggestionsTo string `env:"RECEITAS_SUGGESTIONS_TO, default=editora@receitasdeamor.com.br"`
}

// Load reads .env (when present) and the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("dotenv_not_loaded", "error", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that cannot be expressed as struct tags.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: RECEITAS_SESSION_BACKEND must be memory or redis, got %q", c.Session.Backend)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("config: RECEITAS_RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: RECEITAS_TIMEZONE: %w", err)
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return errors.New("config: RECEITAS_CSRF_KEY is required in production")
	}
	if c.CSRFKey != "" {
		if _, err := decodeKey(c.CSRFKey); err != nil {
			return fmt.Errorf("config: RECEITAS_CSRF_KEY: %w", err)
		}
	}
	if c.IsProduction() && c.Session.Backend == "redis" && c.Session.SealingKey == "" {
		return errors.New("config: RECEITAS_SESSION_KEY is required for redis sessions in production")
	}
	if c.Session.SealingKey != "" {
		if _, err := decodeKey(c.Session.SealingKey); err != nil {
			return fmt.Errorf("config: RECEITAS_SESSION_KEY: %w", err)
		}
	}
	return nil
}

// IsProduction reports whether secure cookies and JSON logs should be used.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// CheckoutFallback returns the static checkout URL, or "" when disabled.
func (c *Config) CheckoutFallback() string {
	u := strings.TrimSpace(c.Checkout.FallbackURL)
	if strings.EqualFold(u, DisabledCheckoutFallback) {
		return ""
	}
	return u
}

// CSRFKeyBytes decodes RECEITAS_CSRF_KEY; nil when unset.
func (c *Config) CSRFKeyBytes() []byte {
	b, _ := decodeKey(c.CSRFKey)
	return b
}

// SealingKeyBytes decodes RECEITAS_SESSION_KEY; nil when unset.
func (c *Config) SealingKeyBytes() []byte {
	b, _ := decodeKey(c.Session.SealingKey)
	return b
}

// Location returns the zone used to display dates, UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// decodeKey parses a 64-character hex key.
func decodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("must be hex: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("must decode to 32 bytes, got %d", len(b))
	}
	return b, nil
}
