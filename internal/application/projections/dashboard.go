package projections

import (
	"context"
	"errors"
	"log/slog"

	"receitas/internal/adapters/api"
	"receitas/internal/domain/account"
	"receitas/internal/domain/announcement"
	"receitas/internal/domain/recipe"
)

// MsgRecipesUnavailable is shown when a recipe list cannot be loaded.
const MsgRecipesUnavailable = "Nao foi possivel carregar suas receitas agora."

// MemberRecipesAPI lists the recipes a paid member can read.
type MemberRecipesAPI interface {
	ListMyRecipes(ctx context.Context, email, password, category string) (api.List[recipe.Recipe], error)
}

// PublicRecipesAPI lists recipes open to every visitor.
type PublicRecipesAPI interface {
	ListPublicRecipes(ctx context.Context, category string) (api.List[recipe.Recipe], error)
}

// DashboardQuery carries input for the member dashboard.
type DashboardQuery struct {
	User     account.User
	Category string
}

// DashboardDeps holds dependencies for QueryDashboard.
type DashboardDeps struct {
	API           MemberRecipesAPI
	Announcements AnnouncementsDeps
}

// Dashboard is the member area view model.
type Dashboard struct {
	User          account.User
	Locked        bool
	Recipes       RecipesByCategory
	RecipesError  string
	Announcements []announcement.Announcement
}

// QueryDashboard builds the member area. Recipes are listed only for paid members;
// a failed listing yields a placeholder message instead of an error.
// PRE: query.User is the signed-in member
// POST: Announcements are always populated
func QueryDashboard(ctx context.Context, query DashboardQuery, deps DashboardDeps) Dashboard {
	d := Dashboard{
		User:          query.User,
		Locked:        !query.User.HasPaid,
		Announcements: QueryAnnouncements(ctx, deps.Announcements),
	}
	if d.Locked {
		return d
	}

	list, err := deps.API.ListMyRecipes(ctx, query.User.Email, query.User.Password, query.Category)
	if err != nil {
		slog.Warn("dashboard_event", "event", "recipes_failed", "email", query.User.Email, "status", api.StatusOf(err))
		d.RecipesError = messageOr(err, MsgRecipesUnavailable)
		return d
	}
	d.Recipes = GroupRecipesByCategory(list.Items)
	return d
}

// PublicRecipes is the landing page preview.
type PublicRecipes struct {
	Category string
	Recipes  RecipesByCategory
	Error    string
}

// QueryPublicRecipes lists public recipes, optionally for one category.
func QueryPublicRecipes(ctx context.Context, category string, lister PublicRecipesAPI) PublicRecipes {
	out := PublicRecipes{Category: category}
	list, err := lister.ListPublicRecipes(ctx, category)
	if err != nil {
		slog.Warn("landing_event", "event", "public_recipes_failed", "error", err)
		out.Error = messageOr(err, MsgRecipesUnavailable)
		return out
	}
	out.Recipes = GroupRecipesByCategory(list.Items)
	return out
}

// messageOr returns the server message of an API error, or fallback.
func messageOr(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
