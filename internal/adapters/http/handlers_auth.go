package web

import (
	"net/http"

	"receitas/internal/adapters/http/middleware"
	"receitas/internal/adapters/metrics"
	"receitas/internal/application/orchestrators"
)

// MsgAccountCreated is shown on the login page when signup worked but the automatic login did not.
const MsgAccountCreated = "Conta criada com sucesso! Faca login para continuar."

func (a *App) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{
		API:      a.deps.API,
		Sessions: a.deps.Sessions,
		NewToken: a.deps.NewToken,
		Now:      a.deps.Now,
	}
}

func (a *App) refreshDeps() orchestrators.RefreshUserDeps {
	return orchestrators.RefreshUserDeps{API: a.deps.API, Sessions: a.deps.Sessions, Now: a.deps.Now}
}

// handleLoginPage handles GET /login
func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); ok {
		seeOther(w, r, "/dashboard")
		return
	}
	v := view{Title: "Entrar"}
	if r.URL.Query().Get("created") == "1" {
		v.Notice = MsgAccountCreated
	}
	a.render(w, r, http.StatusOK, "login.html", v)
}

// handleLogin handles POST /login
// Paid members land on the dashboard; everyone else on the offer.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if msg := a.bindForm(r, &form); msg != "" {
		a.render(w, r, http.StatusUnprocessableEntity, "login.html", view{Title: "Entrar", Error: msg, Data: form.Email})
		return
	}

	res := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Token:    middleware.TokenFromContext(r.Context()),
		Email:    form.Email,
		Password: string(form.Password),
	}, a.loginDeps())
	metrics.ObserveLogin("user", res.Success)
	if !res.Success {
		a.render(w, r, http.StatusUnauthorized, "login.html", view{Title: "Entrar", Error: res.Error, Data: form.Email})
		return
	}

	middleware.SetSessionCookie(w, res.Token)
	if res.HasPaid {
		seeOther(w, r, "/dashboard")
		return
	}
	seeOther(w, r, "/#offer")
}

// handleSignupPage handles GET /cadastro and GET /signup
func (a *App) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "signup.html", view{Title: "Crie seu acesso"})
}

// handleSignup handles POST /cadastro and POST /signup
// Registration is followed by a login with the same credentials.
func (a *App) handleSignup(w http.ResponseWriter, r *http.Request) {
	var form signupForm
	if msg := a.bindForm(r, &form); msg != "" {
		a.render(w, r, http.StatusUnprocessableEntity, "signup.html", view{Title: "Crie seu acesso", Error: msg, Data: form})
		return
	}

	reg := orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{
		Email:    form.Email,
		Password: string(form.Password),
	}, orchestrators.RegisterDeps{API: a.deps.API})
	if !reg.Success {
		v := view{Title: "Crie seu acesso", Data: form}
		status := reg.Status
		if status == http.StatusConflict {
			v.Notice = reg.Error
			status = http.StatusOK
		} else {
			v.Error = reg.Error
		}
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		a.render(w, r, status, "signup.html", v)
		return
	}

	res := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Token:    middleware.TokenFromContext(r.Context()),
		Email:    form.Email,
		Password: string(form.Password),
	}, a.loginDeps())
	metrics.ObserveLogin("user", res.Success)
	if !res.Success {
		seeOther(w, r, "/login?created=1")
		return
	}
	middleware.SetSessionCookie(w, res.Token)
	seeOther(w, r, "/dashboard")
}

// handleLogout handles POST /logout
// Both the member and the admin session end.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutInput{
		Token: middleware.TokenFromContext(r.Context()),
	}, orchestrators.LogoutDeps{Sessions: a.deps.Sessions})
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.ClearSessionCookie(w)
	seeOther(w, r, "/")
}
