package web

import (
	"errors"
	"net/http"
	"net/url"

	"receitas/internal/adapters/http/middleware"
	"receitas/internal/application/orchestrators"
	"receitas/internal/application/projections"
)

// Messages shown after a manual payment check, keyed by the verify query value.
var verifyMessages = map[string]string{
	"paid":    "Pagamento confirmado! Seu acesso premium foi liberado.",
	"pending": "Pagamento ainda nao confirmado. Aguarde alguns segundos e tente novamente.",
	"failed":  "Nao foi possivel verificar agora. Tente novamente em alguns instantes.",
}

const msgSuggestionSent = "Obrigado! Sua sugestao foi enviada para a nossa equipe."

// dashboardSections are the tabs of the member area.
var dashboardSections = []string{"overview", "community", "recipes"}

type dashboardData struct {
	projections.Dashboard
	Section    string
	Category   string
	Suggestion string
}

func (a *App) announcementsDeps() projections.AnnouncementsDeps {
	return projections.AnnouncementsDeps{Store: a.deps.Announcements, Now: a.deps.Now}
}

// handleDashboard handles GET /dashboard
// Unpaid members get a payment status refresh on every load.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v := view{}
	q := r.URL.Query()
	if msg, ok := verifyMessages[q.Get("verify")]; ok {
		if q.Get("verify") == "failed" {
			v.Error = msg
		} else {
			v.Notice = msg
		}
	}
	if q.Get("suggestion") == "sent" {
		v.Notice = msgSuggestionSent
	}
	a.renderDashboard(w, r, http.StatusOK, v, "")
}

func (a *App) renderDashboard(w http.ResponseWriter, r *http.Request, status int, v view, suggestion string) {
	ctx := r.Context()
	user, _ := middleware.UserFromContext(ctx)

	if !user.HasPaid {
		res := orchestrators.ExecuteRefreshUser(ctx, orchestrators.RefreshUserInput{
			Token: middleware.TokenFromContext(ctx),
		}, a.refreshDeps())
		if res != nil && res.Success {
			user.HasPaid = res.HasPaid
			user.LastVerifiedAt = a.deps.Now()
		}
	}

	category := r.URL.Query().Get("category")
	data := dashboardData{
		Dashboard: projections.QueryDashboard(ctx, projections.DashboardQuery{User: user, Category: category},
			projections.DashboardDeps{API: a.deps.API, Announcements: a.announcementsDeps()}),
		Section:    sectionOrDefault(r.URL.Query().Get("section")),
		Category:   category,
		Suggestion: suggestion,
	}

	v.Title = "Dashboard"
	v.User = &user
	v.Data = data
	a.render(w, r, status, "dashboard.html", v)
}

func sectionOrDefault(s string) string {
	for _, name := range dashboardSections {
		if s == name {
			return s
		}
	}
	return dashboardSections[0]
}

// handleVerifyPayment handles POST /dashboard/verify
func (a *App) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	res := orchestrators.ExecuteRefreshUser(r.Context(), orchestrators.RefreshUserInput{
		Token: middleware.TokenFromContext(r.Context()),
	}, a.refreshDeps())

	outcome := "failed"
	switch {
	case res == nil || !res.Success:
	case res.HasPaid:
		outcome = "paid"
	default:
		outcome = "pending"
	}
	seeOther(w, r, "/dashboard?"+url.Values{"section": {"recipes"}, "verify": {outcome}}.Encode())
}

// handleSuggestion handles POST /dashboard/suggestions
func (a *App) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var form suggestionForm
	if msg := a.bindForm(r, &form); msg != "" {
		a.renderDashboard(w, r, http.StatusUnprocessableEntity, view{Error: msg}, form.Text)
		return
	}

	err := orchestrators.ExecuteSendSuggestion(r.Context(), orchestrators.SendSuggestionInput{
		From: user.Email,
		Text: form.Text,
	}, orchestrators.SendSuggestionDeps{Sender: a.deps.Email, To: a.deps.SuggestionsTo})
	if err != nil {
		status := http.StatusBadGateway
		msg := "Nao foi possivel enviar sua sugestao agora."
		if errors.Is(err, orchestrators.ErrEmptySuggestion) || errors.Is(err, orchestrators.ErrSuggestionsDisabled) {
			status, msg = http.StatusUnprocessableEntity, err.Error()
		}
		a.renderDashboard(w, r, status, view{Error: msg}, form.Text)
		return
	}
	seeOther(w, r, "/dashboard?suggestion=sent")
}
