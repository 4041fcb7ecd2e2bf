package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"receitas/internal/adapters/api"
	"receitas/internal/adapters/email"
	web "receitas/internal/adapters/http"
	"receitas/internal/adapters/http/perf"
	"receitas/internal/adapters/metrics"
	"receitas/internal/adapters/storage"
	announcementStore "receitas/internal/adapters/storage/announcement"
	"receitas/internal/adapters/storage/session"
	"receitas/internal/application/orchestrators"
	"receitas/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const (
	sweepInterval   = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)
	slog.Info("database_ready", "path", cfg.DBPath)

	sessions, sweep, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}

	client := api.New(
		api.ResolveBaseURL(cfg.API.BaseURL, cfg.API.PublicURL),
		api.WithTimeout(cfg.API.Timeout),
		api.WithObserver(func(endpoint, method string, status int, d time.Duration, err error) {
			metrics.ObserveUpstream(endpoint, method, status, d, err)
			collector.RecordUpstream(endpoint, status, d)
		}),
	)
	slog.Info("api_configured", "base_url", client.BaseURL())

	var sender email.Sender
	if cfg.Email.ResendKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
		slog.Info("email_configured", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_configured", "provider", "noop", "warning", "RECEITAS_RESEND_KEY is not set; suggestions are not delivered")
		} else {
			slog.Info("email_configured", "provider", "noop")
		}
	}

	csrfKey := cfg.CSRFKeyBytes()
	if csrfKey == nil {
		csrfKey, err = randomKey()
		if err != nil {
			return err
		}
		slog.Warn("csrf_key_generated", "warning", "set RECEITAS_CSRF_KEY to keep forms valid across restarts")
	}

	handler, err := web.NewMux(web.Deps{
		API:           client,
		Sessions:      sessions,
		Announcements: announcementStore.NewSQLiteStore(timedDB),
		Checkout:      orchestrators.NewCheckoutRedirector(client, cfg.CheckoutFallback()),
		Email:         sender,
		SuggestionsTo: cfg.Email.SuggestionsTo,
		DB:            timedDB,
		Collector:     collector,
		Location:      cfg.Location(),
	}, web.Options{
		CSRFKey:       csrfKey,
		SecureCookies: cfg.IsProduction(),
		RateLimit:     cfg.RateLimit,
		SlowRequest:   cfg.SlowRequest,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           web.NewMetricsMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		return serve(srv)
	})
	g.Go(func() error {
		slog.Info("metrics_starting", "addr", cfg.MetricsAddr)
		return serve(metricsSrv)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server_stopping")
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})
	if sweep != nil {
		g.Go(func() error {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := sweep(); n > 0 {
						slog.Debug("session_sweep", "removed", n)
					}
				}
			}
		})
	}
	return g.Wait()
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openSessions builds the configured session store. The returned sweep is nil
// when the backend expires records on its own.
func openSessions(ctx context.Context, cfg *config.Config) (orchestrators.SessionStore, func() int, error) {
	if cfg.Session.Backend != "redis" {
		mem := session.NewMemoryStore()
		slog.Info("sessions_configured", "backend", "memory")
		return mem, mem.Sweep, nil
	}

	key := cfg.SealingKeyBytes()
	if key == nil {
		var err error
		if key, err = randomKey(); err != nil {
			return nil, nil, err
		}
		slog.Warn("session_key_generated", "warning", "set RECEITAS_SESSION_KEY so sessions survive restarts")
	}
	sealer, err := session.NewSealer(key)
	if err != nil {
		return nil, nil, err
	}
	client, err := session.Connect(ctx, session.RedisConfig{
		Addr:     cfg.Session.RedisAddr,
		Password: cfg.Session.RedisPassword,
		DB:       cfg.Session.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.Info("sessions_configured", "backend", "redis", "addr", cfg.Session.RedisAddr)
	return session.NewRedisStore(client, sealer), nil, nil
}

func randomKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}
