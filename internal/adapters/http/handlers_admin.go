package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"receitas/internal/adapters/api"
	"receitas/internal/adapters/http/middleware"
	"receitas/internal/adapters/http/perf"
	"receitas/internal/adapters/metrics"
	"receitas/internal/application/orchestrators"
	"receitas/internal/application/projections"
	"receitas/internal/domain/announcement"
	"receitas/internal/domain/recipe"
)

// Success notices after an admin action, keyed by the ok query value.
var adminNotices = map[string]string{
	"login":                "Painel carregado.",
	"recipe_created":       "Receita publicada.",
	"recipe_updated":       "Receita atualizada.",
	"recipe_toggled":       "Visibilidade atualizada.",
	"recipe_deleted":       "Receita excluida.",
	"user_updated":         "Status de pagamento atualizado.",
	"announcement_added":   "Novidade publicada.",
	"announcement_deleted": "Novidade removida.",
}

// perfWindow is how far back the admin panel's timing summary looks.
const perfWindow = time.Hour

type adminData struct {
	projections.AdminDashboard
	Loaded        bool
	Filter        api.AdminRecipeFilter
	Announcements []announcement.Announcement
	Perf          *perf.Snapshot
	RecipeForm    recipeForm
	NewsTitle     string
	NewsContent   string
}

// handleAdmin handles GET /admin
// Without an admin session it shows the admin login form.
func (a *App) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.AdminFromContext(r.Context()); !ok {
		a.render(w, r, http.StatusOK, "admin_login.html", view{Title: "Painel admin"})
		return
	}
	a.renderAdmin(w, r, http.StatusOK, view{Notice: adminNotices[r.URL.Query().Get("ok")]}, adminData{})
}

// renderAdmin reloads the panel and renders it with v's messages and any form values in data.
func (a *App) renderAdmin(w http.ResponseWriter, r *http.Request, status int, v view, data adminData) {
	ctx := r.Context()
	adm, _ := middleware.AdminFromContext(ctx)
	q := r.URL.Query()
	data.Filter = api.AdminRecipeFilter{Category: q.Get("category"), IsPublic: q.Get("is_public")}

	loaded, err := projections.QueryAdminDashboard(ctx, projections.AdminDashboardQuery{
		AuthHeader: adm.AuthHeader,
		Filter:     data.Filter,
	}, projections.AdminDashboardDeps{API: a.deps.API})
	if err != nil {
		v.Error = joinMessages(v.Error, orchestrators.UserMessage(err, "Nao foi possivel carregar os dados administrativos agora."))
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	} else {
		data.AdminDashboard = loaded
		data.Loaded = true
	}

	data.Announcements = projections.QueryAnnouncements(ctx, a.announcementsDeps())
	if a.deps.Collector != nil {
		snap := a.deps.Collector.Snapshot(a.deps.Now().Add(-perfWindow), 5)
		data.Perf = &snap
	}

	v.Title = "Painel admin"
	v.Data = data
	a.render(w, r, status, "admin.html", v)
}

func joinMessages(first, second string) string {
	if first == "" {
		return second
	}
	return first + " " + second
}

// handleAdminLogin handles POST /admin/login
// The admin session exists only if all four admin reads succeed with the credentials.
func (a *App) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var form adminLoginForm
	if msg := a.bindForm(r, &form); msg != "" {
		a.render(w, r, http.StatusUnprocessableEntity, "admin_login.html", view{Title: "Painel admin", Error: msg, Data: form.Username})
		return
	}

	res := orchestrators.ExecuteAdminLogin(r.Context(), orchestrators.AdminLoginInput{
		Token:    middleware.TokenFromContext(r.Context()),
		Username: form.Username,
		Password: string(form.Password),
	}, orchestrators.AdminLoginDeps{
		API:      a.deps.API,
		Sessions: a.deps.Sessions,
		NewToken: a.deps.NewToken,
		Now:      a.deps.Now,
	})
	metrics.ObserveLogin("admin", res.Success)
	if !res.Success {
		a.render(w, r, http.StatusUnauthorized, "admin_login.html", view{Title: "Painel admin", Error: res.Error, Data: form.Username})
		return
	}

	middleware.SetSessionCookie(w, res.Token)
	seeOther(w, r, "/admin?ok=login")
}

// handleAdminLogout handles POST /admin/logout
// The member session, if any, is kept.
func (a *App) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteClearAdmin(r.Context(), orchestrators.ClearAdminInput{
		Token: middleware.TokenFromContext(r.Context()),
	}, orchestrators.ClearAdminDeps{Sessions: a.deps.Sessions})
	if err != nil {
		internalError(w, err)
		return
	}
	seeOther(w, r, "/admin")
}

// --- Recipes ---

var errImageTooLarge = fmt.Errorf("image exceeds %d MB", maxUploadBytes>>20)

// recipeImage returns the uploaded image, if the form carried one.
func recipeImage(r *http.Request) (multipart.File, string, error) {
	file, hdr, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if hdr.Size == 0 {
		file.Close()
		return nil, "", nil
	}
	if hdr.Size > maxUploadBytes {
		file.Close()
		return nil, "", errImageTooLarge
	}
	return file, hdr.Filename, nil
}

func (f recipeForm) payload() recipe.Payload {
	return recipe.Payload{Title: f.Title, Content: f.Content, Category: f.Category, IsPublic: f.IsPublic, ImageURL: f.ImageURL}
}

func (a *App) saveRecipe(w http.ResponseWriter, r *http.Request, id int64, okCode, failMsg string) {
	adm, _ := middleware.AdminFromContext(r.Context())

	var form recipeForm
	if msg := a.bindForm(r, &form); msg != "" {
		a.renderAdmin(w, r, http.StatusUnprocessableEntity, view{Error: msg}, adminData{RecipeForm: form})
		return
	}
	file, filename, err := recipeImage(r)
	if errors.Is(err, errImageTooLarge) {
		msg := fmt.Sprintf("A imagem deve ter no maximo %d MB.", maxUploadBytes>>20)
		a.renderAdmin(w, r, http.StatusRequestEntityTooLarge, view{Error: msg}, adminData{RecipeForm: form})
		return
	}
	if err != nil {
		a.renderAdmin(w, r, http.StatusBadRequest, view{Error: "Nao foi possivel ler a imagem."}, adminData{RecipeForm: form})
		return
	}
	var image io.Reader
	if file != nil {
		defer file.Close()
		image = file
	}

	_, err = orchestrators.ExecuteSaveRecipe(r.Context(), orchestrators.SaveRecipeInput{
		AuthHeader:    adm.AuthHeader,
		ID:            id,
		Payload:       form.payload(),
		Image:         image,
		ImageFilename: filename,
	}, orchestrators.AdminRecipeDeps{API: a.deps.API})
	if err != nil {
		a.adminActionFailed(w, r, err, failMsg, adminData{RecipeForm: form})
		return
	}
	seeOther(w, r, "/admin?ok="+okCode)
}

// adminActionFailed re-renders the panel with the failure next to the forms.
func (a *App) adminActionFailed(w http.ResponseWriter, r *http.Request, err error, fallback string, data adminData) {
	status := http.StatusBadGateway
	if isValidation(err) {
		status = http.StatusUnprocessableEntity
	}
	a.renderAdmin(w, r, status, view{Error: orchestrators.UserMessage(err, fallback)}, data)
}

// isValidation reports whether err was raised locally before any remote call.
func isValidation(err error) bool {
	return errors.Is(err, recipe.ErrEmptyTitle) ||
		errors.Is(err, recipe.ErrEmptyContent) ||
		errors.Is(err, recipe.ErrEmptyCategory)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// handleCreateRecipe handles POST /admin/recipes
func (a *App) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	a.saveRecipe(w, r, 0, "recipe_created", "Nao foi possivel criar a receita agora.")
}

// handleUpdateRecipe handles POST /admin/recipes/{id}/update
func (a *App) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a.saveRecipe(w, r, id, "recipe_updated", "Nao foi possivel atualizar a receita.")
}

// handleToggleRecipe handles POST /admin/recipes/{id}/toggle
// The form carries the recipe's current fields; only visibility changes.
func (a *App) handleToggleRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	adm, _ := middleware.AdminFromContext(r.Context())

	var form recipeForm
	if err := a.decodeForm(r, &form); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	current := recipe.Recipe{ID: id, Title: form.Title, Content: form.Content, IsPublic: form.IsPublic, ImageURL: form.ImageURL}
	if form.Category != "" {
		current.Category = &form.Category
	}

	_, err := orchestrators.ExecuteToggleRecipeVisibility(r.Context(), orchestrators.ToggleRecipeInput{
		AuthHeader: adm.AuthHeader,
		Recipe:     current,
	}, orchestrators.AdminRecipeDeps{API: a.deps.API})
	if err != nil {
		a.adminActionFailed(w, r, err, "Nao foi possivel atualizar a receita.", adminData{})
		return
	}
	seeOther(w, r, "/admin?ok=recipe_toggled")
}

// handleDeleteRecipe handles POST /admin/recipes/{id}/delete
func (a *App) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	adm, _ := middleware.AdminFromContext(r.Context())

	err := orchestrators.ExecuteDeleteRecipe(r.Context(), orchestrators.DeleteRecipeInput{
		AuthHeader: adm.AuthHeader,
		ID:         id,
	}, orchestrators.AdminRecipeDeps{API: a.deps.API})
	if err != nil {
		a.adminActionFailed(w, r, err, "Nao foi possivel excluir a receita.", adminData{})
		return
	}
	seeOther(w, r, "/admin?ok=recipe_deleted")
}

// --- Users ---

// handleSetUserPayment handles POST /admin/users/{id}/payment
func (a *App) handleSetUserPayment(w http.ResponseWriter, r *http.Request) {
	adm, _ := middleware.AdminFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	_, err := orchestrators.ExecuteSetUserPayment(r.Context(), orchestrators.SetUserPaymentInput{
		AuthHeader: adm.AuthHeader,
		UserID:     r.PathValue("id"),
		HasPaid:    r.FormValue("has_paid") == "true",
	}, orchestrators.AdminRecipeDeps{API: a.deps.API})
	if err != nil {
		a.adminActionFailed(w, r, err, "Nao foi possivel atualizar o usuario.", adminData{})
		return
	}
	seeOther(w, r, "/admin?ok=user_updated")
}

// --- Announcements ---

// handleAddAnnouncement handles POST /admin/announcements
func (a *App) handleAddAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	title, content := r.FormValue("title"), r.FormValue("content")

	_, err := orchestrators.ExecuteAddAnnouncement(r.Context(), orchestrators.AddAnnouncementInput{
		Title:   title,
		Content: content,
	}, orchestrators.AddAnnouncementDeps{
		Store:      a.deps.Announcements,
		GenerateID: a.deps.GenerateID,
		Now:        a.deps.Now,
	})
	if errors.Is(err, announcement.ErrTitleAndContentRequired) {
		a.renderAdmin(w, r, http.StatusUnprocessableEntity, view{Error: err.Error()},
			adminData{NewsTitle: title, NewsContent: content})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	seeOther(w, r, "/admin?ok=announcement_added")
}

// handleDeleteAnnouncement handles POST /admin/announcements/{id}/delete
func (a *App) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteAnnouncement(r.Context(), orchestrators.DeleteAnnouncementInput{
		ID: r.PathValue("id"),
	}, orchestrators.DeleteAnnouncementDeps{Store: a.deps.Announcements, Now: a.deps.Now})
	if err != nil {
		internalError(w, err)
		return
	}
	seeOther(w, r, "/admin?ok=announcement_deleted")
}
