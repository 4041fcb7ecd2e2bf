package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"receitas/internal/domain/admin"
	"receitas/internal/domain/recipe"
)

// ErrMissingCheckoutURL is returned when the checkout endpoint answers without a URL.
var ErrMissingCheckoutURL = errors.New("checkout session returned no URL")

// Health is the body of GET /health.
type Health struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

// credentials is the body shared by /register, /login and /recipes/my.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Category string `json:"category,omitempty"`
}

// LoginResponse is the body of a successful POST /login.
type LoginResponse struct {
	Email   string `json:"email"`
	HasPaid bool   `json:"has_paid"`
	Message string `json:"message"`
}

// CheckoutSession is the body of POST /create-checkout-session.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
}

// ImageUpload is the body of POST /admin/upload-image.
type ImageUpload struct {
	URL string `json:"url"`
}

// AdminRecipeFilter narrows GET /admin/recipes. Empty fields are not sent.
type AdminRecipeFilter struct {
	Category string
	// IsPublic is "true", "false" or empty for both.
	IsPublic string
}

// HealthCheck calls GET /health.
func (c *Client) HealthCheck(ctx context.Context) (Health, error) {
	var out Health
	_, err := c.do(ctx, "health", "/health", requestOptions{}, &out)
	return out, err
}

// Register calls POST /register.
// PRE: email and password are non-empty
// POST: Returns the response status; 409 (account exists) is not an error
func (c *Client) Register(ctx context.Context, email, password string) (int, error) {
	return c.do(ctx, "register", "/register", requestOptions{
		method:      http.MethodPost,
		body:        credentials{Email: email, Password: password},
		allowStatus: []int{http.StatusConflict},
	}, nil)
}

// Login calls POST /login.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	_, err := c.do(ctx, "login", "/login", requestOptions{
		method: http.MethodPost,
		body:   credentials{Email: email, Password: password},
	}, &out)
	return out, err
}

// CreateCheckoutSession calls POST /create-checkout-session.
// POST: Returns a non-empty checkout URL or an error
func (c *Client) CreateCheckoutSession(ctx context.Context) (CheckoutSession, error) {
	var out CheckoutSession
	if _, err := c.do(ctx, "checkout.create", "/create-checkout-session", requestOptions{
		method: http.MethodPost,
	}, &out); err != nil {
		return out, err
	}
	if out.CheckoutURL == "" {
		return out, ErrMissingCheckoutURL
	}
	return out, nil
}

// ListPublicRecipes calls GET /recipes/public, optionally filtered by category.
func (c *Client) ListPublicRecipes(ctx context.Context, category string) (List[recipe.Recipe], error) {
	path := "/recipes/public"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var out List[recipe.Recipe]
	_, err := c.do(ctx, "recipes.public", path, requestOptions{}, &out)
	return out, err
}

// ListMyRecipes calls POST /recipes/my with the member's credentials.
func (c *Client) ListMyRecipes(ctx context.Context, email, password, category string) (List[recipe.Recipe], error) {
	var out List[recipe.Recipe]
	_, err := c.do(ctx, "recipes.my", "/recipes/my", requestOptions{
		method: http.MethodPost,
		body:   credentials{Email: email, Password: password, Category: category},
	}, &out)
	return out, err
}

// ListAdminRecipes calls GET /admin/recipes.
func (c *Client) ListAdminRecipes(ctx context.Context, auth string, filter AdminRecipeFilter) (List[recipe.Recipe], error) {
	path := "/admin/recipes"
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.IsPublic != "" {
		q.Set("is_public", filter.IsPublic)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out List[recipe.Recipe]
	_, err := c.do(ctx, "admin.recipes.list", path, requestOptions{authHeader: auth}, &out)
	return out, err
}

// CreateAdminRecipe calls POST /admin/recipes.
func (c *Client) CreateAdminRecipe(ctx context.Context, auth string, payload recipe.Payload) (recipe.Recipe, error) {
	var out recipe.Recipe
	_, err := c.do(ctx, "admin.recipes.create", "/admin/recipes", requestOptions{
		method:     http.MethodPost,
		authHeader: auth,
		body:       payload,
	}, &out)
	return out, err
}

// UpdateAdminRecipe calls PUT /admin/recipes/:id.
func (c *Client) UpdateAdminRecipe(ctx context.Context, auth string, id int64, payload recipe.Payload) (recipe.Recipe, error) {
	var out recipe.Recipe
	_, err := c.do(ctx, "admin.recipes.update", "/admin/recipes/"+strconv.FormatInt(id, 10), requestOptions{
		method:     http.MethodPut,
		authHeader: auth,
		body:       payload,
	}, &out)
	return out, err
}

// DeleteAdminRecipe calls DELETE /admin/recipes/:id. The response body is ignored.
func (c *Client) DeleteAdminRecipe(ctx context.Context, auth string, id int64) error {
	_, err := c.do(ctx, "admin.recipes.delete", "/admin/recipes/"+strconv.FormatInt(id, 10), requestOptions{
		method:     http.MethodDelete,
		authHeader: auth,
		skipJSON:   true,
	}, nil)
	return err
}

// GetAdminStats calls GET /admin/stats.
func (c *Client) GetAdminStats(ctx context.Context, auth string) (admin.Stats, error) {
	var out admin.Stats
	_, err := c.do(ctx, "admin.stats", "/admin/stats", requestOptions{authHeader: auth}, &out)
	return out, err
}

// ListAdminUsers calls GET /admin/users.
func (c *Client) ListAdminUsers(ctx context.Context, auth string) (List[admin.User], error) {
	var out List[admin.User]
	_, err := c.do(ctx, "admin.users.list", "/admin/users", requestOptions{authHeader: auth}, &out)
	return out, err
}

// UpdateAdminUser calls PUT /admin/users/:id.
func (c *Client) UpdateAdminUser(ctx context.Context, auth, id string, update admin.UserUpdate) (admin.User, error) {
	var out admin.User
	_, err := c.do(ctx, "admin.users.update", "/admin/users/"+url.PathEscape(id), requestOptions{
		method:     http.MethodPut,
		authHeader: auth,
		body:       update,
	}, &out)
	return out, err
}

// ListAdminPayments calls GET /admin/payments.
func (c *Client) ListAdminPayments(ctx context.Context, auth string) (List[admin.Payment], error) {
	var out List[admin.Payment]
	_, err := c.do(ctx, "admin.payments.list", "/admin/payments", requestOptions{authHeader: auth}, &out)
	return out, err
}

// UploadAdminImage calls POST /admin/upload-image with the file in the "file" field.
func (c *Client) UploadAdminImage(ctx context.Context, auth, filename string, file io.Reader) (ImageUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return ImageUpload{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return ImageUpload{}, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return ImageUpload{}, fmt.Errorf("close multipart: %w", err)
	}

	var out ImageUpload
	_, err = c.do(ctx, "admin.images.upload", "/admin/upload-image", requestOptions{
		method:     http.MethodPost,
		authHeader: auth,
		multipart:  &multipartBody{contentType: mw.FormDataContentType(), data: &buf},
	}, &out)
	return out, err
}
