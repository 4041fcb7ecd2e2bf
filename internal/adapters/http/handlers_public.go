package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"receitas/internal/adapters/http/middleware"
	"receitas/internal/adapters/metrics"
	"receitas/internal/application/orchestrators"
	"receitas/internal/application/projections"
)

// healthCheckTimeout bounds the health check's calls to the database and the remote API.
const healthCheckTimeout = 2 * time.Second

type landingData struct {
	Public projections.PublicRecipes
}

// handleLanding handles GET /
// The browser token is issued here so the checkout guard already holds on the first click.
func (a *App) handleLanding(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.EnsureSessionToken(w, r); err != nil {
		internalError(w, err)
		return
	}
	a.renderLanding(w, r, http.StatusOK, "")
}

func (a *App) renderLanding(w http.ResponseWriter, r *http.Request, status int, checkoutError string) {
	category := r.URL.Query().Get("category")
	a.render(w, r, status, "landing.html", view{
		Title: "1000 Receitas de Amor",
		Error: checkoutError,
		Data:  landingData{Public: projections.QueryPublicRecipes(r.Context(), category, a.deps.API)},
	})
}

// handleCheckout handles POST /checkout
// The browser's session token keys the in-flight guard, so a double submit makes one API call.
func (a *App) handleCheckout(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.EnsureSessionToken(w, r)
	if err != nil {
		internalError(w, err)
		return
	}

	var target string
	result := a.deps.Checkout.Redirect(r.Context(), token, func(url string) { target = url })
	metrics.CheckoutOutcomesTotal.WithLabelValues(string(result.Outcome)).Inc()

	switch result.Outcome {
	case orchestrators.CheckoutViaAPI, orchestrators.CheckoutViaFallback:
		http.Redirect(w, r, target, http.StatusSeeOther)
	case orchestrators.CheckoutSkipped:
		a.render(w, r, http.StatusAccepted, "redirecting.html", view{Title: "Redirecionando..."})
	default:
		a.renderLanding(w, r, http.StatusBadGateway, result.Error)
	}
}

type checkoutSuccessData struct {
	Verified bool
	HasPaid  bool
}

// handleCheckoutSuccess handles GET /checkout/success
// A signed-in member gets a payment status refresh before the page renders.
func (a *App) handleCheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	data := checkoutSuccessData{}
	res := orchestrators.ExecuteRefreshUser(r.Context(), orchestrators.RefreshUserInput{
		Token: middleware.TokenFromContext(r.Context()),
	}, a.refreshDeps())
	if res != nil && res.Success {
		data.Verified = true
		data.HasPaid = res.HasPaid
	}
	a.render(w, r, http.StatusOK, "checkout_success.html", view{Title: "Pagamento confirmado!", Data: data})
}

// handleCheckoutFailure handles GET /checkout/failure
func (a *App) handleCheckoutFailure(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "checkout_failure.html", view{Title: "Pagamento nao concluido"})
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	API    string `json:"api"`
	Time   string `json:"time"`
}

// handleHealth handles GET /health
// Only local storage decides the status code; the remote API is reported for information.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", DB: "ok", API: "ok", Time: a.deps.Now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	if a.deps.DB != nil {
		if err := a.deps.DB.Ping(ctx); err != nil {
			resp.Status, resp.DB = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if h, err := a.deps.API.HealthCheck(ctx); err != nil || !h.OK {
		resp.API = "unreachable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
