package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"receitas/internal/adapters/api"
	"receitas/internal/adapters/email"
	"receitas/internal/adapters/http/middleware"
	"receitas/internal/adapters/http/perf"
	announcementStore "receitas/internal/adapters/storage/announcement"
	"receitas/internal/adapters/storage/session"
	"receitas/internal/application/orchestrators"
	"receitas/internal/application/projections"
)

// API is every remote call the web layer makes. *api.Client satisfies it.
type API interface {
	orchestrators.LoginAPI
	orchestrators.RegisterAPI
	orchestrators.CheckoutAPI
	orchestrators.AdminAPI
	projections.AdminDashboardAPI
	projections.MemberRecipesAPI
	projections.PublicRecipesAPI
	HealthCheck(ctx context.Context) (api.Health, error)
}

var _ API = (*api.Client)(nil)

// Pinger reports whether local storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the handlers need. Built once in main.
type Deps struct {
	API           API
	Sessions      orchestrators.SessionStore
	Announcements announcementStore.Store
	Checkout      *orchestrators.CheckoutRedirector
	Email         email.Sender
	SuggestionsTo string
	DB            Pinger
	Collector     *perf.Collector
	Location      *time.Location

	// Optional; defaults are the real clock and generators.
	Now        func() time.Time
	NewToken   func() (string, error)
	GenerateID func() string
}

// Options configures the middleware chain.
type Options struct {
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int
	SlowRequest    time.Duration
}

// App serves the site.
type App struct {
	deps     Deps
	views    *renderer
	validate *validator.Validate
	forms    *form.Decoder
}

// NewApp fills defaults and parses the templates.
func NewApp(deps Deps) (*App, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewToken == nil {
		deps.NewToken = session.NewToken
	}
	if deps.GenerateID == nil {
		deps.GenerateID = func() string { return uuid.New().String() }
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	views, err := newRenderer(deps.Location)
	if err != nil {
		return nil, err
	}
	return &App{deps: deps, views: views, validate: newValidator(), forms: newFormDecoder()}, nil
}

// NewMux wires HTTP handlers and middleware for the app.
func NewMux(deps Deps, opts Options) (http.Handler, error) {
	app, err := NewApp(deps)
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	if len(opts.CSRFKey) != 32 {
		return nil, fmt.Errorf("web: CSRF key must be 32 bytes, got %d", len(opts.CSRFKey))
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	middleware.SecureCookies = opts.SecureCookies

	mux := http.NewServeMux()
	app.registerRoutes(mux)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(middleware.RecordRoute(mux),
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.SecureCookies, opts.TrustedOrigins),
		middleware.Auth(deps.Sessions),
		middleware.RateLimit(opts.RateLimit),
		middleware.Timing(deps.Collector, opts.SlowRequest),
	), nil
}

// NewMetricsMux serves Prometheus metrics. It belongs on an internal listener,
// never on the public one.
func NewMetricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (a *App) registerRoutes(mux *http.ServeMux) {
	user := func(h http.HandlerFunc) http.Handler { return middleware.RequireUser(h) }
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	mux.HandleFunc("GET /health", a.handleHealth)

	// Public
	mux.HandleFunc("GET /{$}", a.handleLanding)
	mux.HandleFunc("POST /checkout", a.handleCheckout)
	mux.HandleFunc("GET /checkout/success", a.handleCheckoutSuccess)
	mux.HandleFunc("GET /checkout/failure", a.handleCheckoutFailure)

	// Member auth
	mux.HandleFunc("GET /login", a.handleLoginPage)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("GET /cadastro", a.handleSignupPage)
	mux.HandleFunc("POST /cadastro", a.handleSignup)
	mux.HandleFunc("GET /signup", a.handleSignupPage)
	mux.HandleFunc("POST /signup", a.handleSignup)
	mux.HandleFunc("POST /logout", a.handleLogout)

	// Member area
	mux.Handle("GET /dashboard", user(a.handleDashboard))
	mux.Handle("POST /dashboard/verify", user(a.handleVerifyPayment))
	mux.Handle("POST /dashboard/suggestions", user(a.handleSuggestion))

	// Admin
	mux.HandleFunc("GET /admin", a.handleAdmin)
	mux.HandleFunc("POST /admin/login", a.handleAdminLogin)
	mux.HandleFunc("POST /admin/logout", a.handleAdminLogout)
	mux.Handle("POST /admin/recipes", admin(a.handleCreateRecipe))
	mux.Handle("POST /admin/recipes/{id}/update", admin(a.handleUpdateRecipe))
	mux.Handle("POST /admin/recipes/{id}/toggle", admin(a.handleToggleRecipe))
	mux.Handle("POST /admin/recipes/{id}/delete", admin(a.handleDeleteRecipe))
	mux.Handle("POST /admin/users/{id}/payment", admin(a.handleSetUserPayment))
	mux.Handle("POST /admin/announcements", admin(a.handleAddAnnouncement))
	mux.Handle("POST /admin/announcements/{id}/delete", admin(a.handleDeleteAnnouncement))
}
