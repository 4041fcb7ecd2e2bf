package recipe

import (
	"errors"
	"strings"
)

// DefaultCategory is the bucket used for recipes without a category.
const DefaultCategory = "general"

// Visibility labels shown next to each recipe.
const (
	LabelPublic  = "Publica"
	LabelPremium = "Premium"
)

// Domain errors
var (
	ErrEmptyTitle    = errors.New("recipe title cannot be empty")
	ErrEmptyContent  = errors.New("recipe content cannot be empty")
	ErrEmptyCategory = errors.New("recipe category cannot be empty")
)

// Recipe is a content record owned by the remote service.
// Premium recipes (IsPublic == false) are gated server-side; the label here is advisory.
type Recipe struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category *string `json:"category"`
	IsPublic bool    `json:"is_public"`
	ImageURL string  `json:"image_url,omitempty"`
}

// IsPremium reports whether the recipe is restricted to paid users.
func (r Recipe) IsPremium() bool {
	return !r.IsPublic
}

// VisibilityLabel returns the display label for the recipe.
func (r Recipe) VisibilityLabel() string {
	if r.IsPublic {
		return LabelPublic
	}
	return LabelPremium
}

// CategoryOrDefault returns the category, falling back to DefaultCategory.
func (r Recipe) CategoryOrDefault() string {
	if r.Category == nil || strings.TrimSpace(*r.Category) == "" {
		return DefaultCategory
	}
	return *r.Category
}

// Payload is the body sent when an admin creates or updates a recipe.
type Payload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	IsPublic bool   `json:"is_public"`
	ImageURL string `json:"image_url,omitempty"`
}

// Validate checks the payload before it is sent upstream.
// PRE: Payload fields are populated from a form
// POST: Returns nil if valid, a domain error otherwise
func (p Payload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// ToggledPayload builds the update payload that flips the recipe's visibility.
// Missing categories are sent as DefaultCategory.
func (r Recipe) ToggledPayload() Payload {
	return Payload{
		Title:    r.Title,
		Content:  r.Content,
		Category: r.CategoryOrDefault(),
		IsPublic: !r.IsPublic,
		ImageURL: r.ImageURL,
	}
}
