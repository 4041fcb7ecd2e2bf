package orchestrators

import (
	"context"
	"log/slog"
	"sync"

	"receitas/internal/adapters/api"
)

// CheckoutOutcome says how a checkout attempt ended.
type CheckoutOutcome string

// Checkout outcomes.
const (
	CheckoutViaAPI      CheckoutOutcome = "api"
	CheckoutViaFallback CheckoutOutcome = "fallback"
	CheckoutFailed      CheckoutOutcome = "failed"
	CheckoutSkipped     CheckoutOutcome = "skipped"
)

// CheckoutAPI is the remote call that opens a hosted checkout session.
type CheckoutAPI interface {
	CreateCheckoutSession(ctx context.Context) (api.CheckoutSession, error)
}

// CheckoutResult is the outcome of one Redirect call.
type CheckoutResult struct {
	Outcome CheckoutOutcome
	URL     string
	Error   string
}

// CheckoutRedirector guards checkout so each browser has at most one attempt in flight.
// A key is either idle or redirecting.
type CheckoutRedirector struct {
	api      CheckoutAPI
	fallback string

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCheckoutRedirector creates a redirector. An empty fallback disables the static link.
func NewCheckoutRedirector(checkout CheckoutAPI, fallback string) *CheckoutRedirector {
	return &CheckoutRedirector{api: checkout, fallback: fallback, inflight: map[string]struct{}{}}
}

// Redirect creates a checkout session for key and calls navigate with the destination.
// PRE: key identifies the browser (its session token)
// POST: While a call for key is running, further calls return CheckoutSkipped without
// calling the API or navigate. On API failure navigate gets the fallback URL; without a
// fallback the result carries MsgCheckoutFailed. The key is idle again on return.
func (r *CheckoutRedirector) Redirect(ctx context.Context, key string, navigate func(url string)) CheckoutResult {
	r.mu.Lock()
	if _, busy := r.inflight[key]; busy {
		r.mu.Unlock()
		slog.Info("checkout_event", "event", "checkout_skipped")
		return CheckoutResult{Outcome: CheckoutSkipped}
	}
	r.inflight[key] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.inflight, key)
		r.mu.Unlock()
	}()

	session, err := r.api.CreateCheckoutSession(ctx)
	if err == nil {
		navigate(session.CheckoutURL)
		slog.Info("checkout_event", "event", "checkout_started", "via", CheckoutViaAPI)
		return CheckoutResult{Outcome: CheckoutViaAPI, URL: session.CheckoutURL}
	}

	slog.Warn("checkout_event", "event", "checkout_session_failed", "error", err, "status", api.StatusOf(err))
	if r.fallback != "" {
		navigate(r.fallback)
		return CheckoutResult{Outcome: CheckoutViaFallback, URL: r.fallback}
	}
	return CheckoutResult{Outcome: CheckoutFailed, Error: MsgCheckoutFailed}
}

// InFlight reports whether a checkout for key is running.
func (r *CheckoutRedirector) InFlight(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[key]
	return ok
}
