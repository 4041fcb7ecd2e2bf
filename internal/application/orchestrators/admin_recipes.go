package orchestrators

import (
	"context"
	"io"
	"log/slog"

	"receitas/internal/adapters/api"
	"receitas/internal/domain/admin"
	"receitas/internal/domain/recipe"
)

// AdminAPI is the set of admin write calls.
type AdminAPI interface {
	CreateAdminRecipe(ctx context.Context, auth string, payload recipe.Payload) (recipe.Recipe, error)
	UpdateAdminRecipe(ctx context.Context, auth string, id int64, payload recipe.Payload) (recipe.Recipe, error)
	DeleteAdminRecipe(ctx context.Context, auth string, id int64) error
	UpdateAdminUser(ctx context.Context, auth, id string, update admin.UserUpdate) (admin.User, error)
	UploadAdminImage(ctx context.Context, auth, filename string, file io.Reader) (api.ImageUpload, error)
}

// AdminRecipeDeps holds dependencies for the admin write orchestrators.
type AdminRecipeDeps struct {
	API AdminAPI
}

// --- Save Recipe ---

// SaveRecipeInput carries input for creating or updating a recipe.
type SaveRecipeInput struct {
	AuthHeader string
	ID         int64 // zero creates
	Payload    recipe.Payload
	// Image, when set, is uploaded first and its URL stored on the recipe.
	Image         io.Reader
	ImageFilename string
}

// ExecuteSaveRecipe creates or updates a recipe.
// PRE: AuthHeader belongs to a signed-in admin
// POST: Returns the recipe as stored by the remote service
func ExecuteSaveRecipe(ctx context.Context, input SaveRecipeInput, deps AdminRecipeDeps) (recipe.Recipe, error) {
	payload := input.Payload
	if payload.Category == "" {
		payload.Category = recipe.DefaultCategory
	}
	if err := payload.Validate(); err != nil {
		return recipe.Recipe{}, err
	}

	if input.Image != nil {
		up, err := deps.API.UploadAdminImage(ctx, input.AuthHeader, input.ImageFilename, input.Image)
		if err != nil {
			return recipe.Recipe{}, err
		}
		payload.ImageURL = up.URL
	}

	var (
		saved recipe.Recipe
		err   error
	)
	if input.ID == 0 {
		saved, err = deps.API.CreateAdminRecipe(ctx, input.AuthHeader, payload)
	} else {
		saved, err = deps.API.UpdateAdminRecipe(ctx, input.AuthHeader, input.ID, payload)
	}
	if err != nil {
		return recipe.Recipe{}, err
	}

	slog.Info("admin_event", "event", "recipe_saved", "recipe_id", saved.ID, "created", input.ID == 0)
	return saved, nil
}

// --- Toggle Visibility ---

// ToggleRecipeInput carries input for flipping a recipe between public and premium.
type ToggleRecipeInput struct {
	AuthHeader string
	Recipe     recipe.Recipe
}

// ExecuteToggleRecipeVisibility sends the recipe's current fields with IsPublic flipped.
// POST: Returns the updated recipe
func ExecuteToggleRecipeVisibility(ctx context.Context, input ToggleRecipeInput, deps AdminRecipeDeps) (recipe.Recipe, error) {
	updated, err := deps.API.UpdateAdminRecipe(ctx, input.AuthHeader, input.Recipe.ID, input.Recipe.ToggledPayload())
	if err != nil {
		return recipe.Recipe{}, err
	}
	slog.Info("admin_event", "event", "recipe_visibility_changed", "recipe_id", updated.ID, "is_public", updated.IsPublic)
	return updated, nil
}

// --- Delete Recipe ---

// DeleteRecipeInput carries input for deleting a recipe.
type DeleteRecipeInput struct {
	AuthHeader string
	ID         int64
}

// ExecuteDeleteRecipe deletes a recipe.
func ExecuteDeleteRecipe(ctx context.Context, input DeleteRecipeInput, deps AdminRecipeDeps) error {
	if err := deps.API.DeleteAdminRecipe(ctx, input.AuthHeader, input.ID); err != nil {
		return err
	}
	slog.Info("admin_event", "event", "recipe_deleted", "recipe_id", input.ID)
	return nil
}

// --- Set User Payment ---

// SetUserPaymentInput carries input for marking a user as paid or unpaid.
type SetUserPaymentInput struct {
	AuthHeader string
	UserID     string
	HasPaid    bool
}

// ExecuteSetUserPayment updates a user's payment flag.
// POST: Returns the updated user
func ExecuteSetUserPayment(ctx context.Context, input SetUserPaymentInput, deps AdminRecipeDeps) (admin.User, error) {
	paid := input.HasPaid
	u, err := deps.API.UpdateAdminUser(ctx, input.AuthHeader, input.UserID, admin.UserUpdate{HasPaid: &paid})
	if err != nil {
		return admin.User{}, err
	}
	slog.Info("admin_event", "event", "user_payment_changed", "user_id", input.UserID, "has_paid", paid)
	return u, nil
}
