package projections

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"receitas/internal/adapters/api"
	"receitas/internal/domain/admin"
	"receitas/internal/domain/recipe"
)

// AdminDashboardAPI is the subset of the API client read by the admin panel.
type AdminDashboardAPI interface {
	ListAdminRecipes(ctx context.Context, auth string, filter api.AdminRecipeFilter) (api.List[recipe.Recipe], error)
	GetAdminStats(ctx context.Context, auth string) (admin.Stats, error)
	ListAdminUsers(ctx context.Context, auth string) (api.List[admin.User], error)
	ListAdminPayments(ctx context.Context, auth string) (api.List[admin.Payment], error)
}

// AdminDashboardQuery carries input for the admin panel projection.
type AdminDashboardQuery struct {
	AuthHeader string
	Filter     api.AdminRecipeFilter
}

// AdminDashboardDeps holds dependencies for QueryAdminDashboard.
type AdminDashboardDeps struct {
	API AdminDashboardAPI
}

// AdminDashboard is the fully loaded admin panel.
type AdminDashboard struct {
	Recipes  []recipe.Recipe
	Stats    admin.Stats
	Users    []admin.User
	Payments []admin.Payment
}

// QueryAdminDashboard loads recipes, stats, users and payments concurrently.
// PRE: AuthHeader is a Basic credential
// POST: Returns every part or the first error; a failure cancels the other reads
// and no partial result is returned
func QueryAdminDashboard(ctx context.Context, query AdminDashboardQuery, deps AdminDashboardDeps) (AdminDashboard, error) {
	var out AdminDashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := deps.API.ListAdminRecipes(gctx, query.AuthHeader, query.Filter)
		if err != nil {
			return fmt.Errorf("admin recipes: %w", err)
		}
		out.Recipes = list.Items
		return nil
	})
	g.Go(func() error {
		stats, err := deps.API.GetAdminStats(gctx, query.AuthHeader)
		if err != nil {
			return fmt.Errorf("admin stats: %w", err)
		}
		out.Stats = stats
		return nil
	})
	g.Go(func() error {
		list, err := deps.API.ListAdminUsers(gctx, query.AuthHeader)
		if err != nil {
			return fmt.Errorf("admin users: %w", err)
		}
		out.Users = list.Items
		return nil
	})
	g.Go(func() error {
		list, err := deps.API.ListAdminPayments(gctx, query.AuthHeader)
		if err != nil {
			return fmt.Errorf("admin payments: %w", err)
		}
		out.Payments = list.Items
		return nil
	})

	if err := g.Wait(); err != nil {
		return AdminDashboard{}, err
	}
	return out, nil
}
