package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"receitas/internal/adapters/http/middleware"
	"receitas/internal/application/projections"
	"receitas/internal/domain/account"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var pageNames = []string{
	"landing.html",
	"login.html",
	"signup.html",
	"dashboard.html",
	"checkout_success.html",
	"checkout_failure.html",
	"redirecting.html",
	"admin_login.html",
	"admin.html",
}

// view is the data every page template receives.
type view struct {
	Title     string
	CSRFField template.HTML
	User      *account.User
	Admin     *account.Admin
	Notice    string
	Error     string
	Data      any
}

type renderer struct {
	pages map[string]*template.Template
}

// newRenderer parses layout.html with each page once at startup.
func newRenderer(loc *time.Location) (*renderer, error) {
	funcs := templateFuncs(loc)
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return &renderer{pages: pages}, nil
}

func templateFuncs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"formatCurrency": projections.FormatCurrency,
		"formatCount":    projections.FormatCount,
		"formatDate":     func(raw string) string { return projections.FormatDateTime(raw, loc) },
		"formatTime":     func(t time.Time) string { return projections.FormatTime(t, loc) },
		"formatMs":       func(ms float64) string { return fmt.Sprintf("%.1f ms", ms) },
	}
}

// render executes page into a buffer so template failures become a clean 500.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	tpl, ok := a.views.pages[page]
	if !ok {
		internalError(w, fmt.Errorf("unknown page %q", page))
		return
	}

	v.CSRFField = csrf.TemplateField(r)
	if v.User == nil {
		if u, ok := middleware.UserFromContext(r.Context()); ok {
			v.User = &u
		}
	}
	if v.Admin == nil {
		if adm, ok := middleware.AdminFromContext(r.Context()); ok {
			v.Admin = &adm
		}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, v); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// seeOther finishes a POST with a 303 redirect.
func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
