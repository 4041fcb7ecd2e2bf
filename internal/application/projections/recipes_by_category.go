package projections

import "receitas/internal/domain/recipe"

// RecipesByCategory groups recipes by category.
// Categories lists each category once, in the order it first appears.
type RecipesByCategory struct {
	Categories []string
	Groups     map[string][]recipe.Recipe
}

// CategorySection is one rendered group.
type CategorySection struct {
	Name    string
	Recipes []recipe.Recipe
}

// GroupRecipesByCategory buckets recipes by category, using recipe.DefaultCategory
// for recipes without one.
// PRE: none
// POST: Server order is kept within each group; the input is not modified
func GroupRecipesByCategory(recipes []recipe.Recipe) RecipesByCategory {
	out := RecipesByCategory{Groups: make(map[string][]recipe.Recipe)}
	for _, r := range recipes {
		key := r.CategoryOrDefault()
		if _, seen := out.Groups[key]; !seen {
			out.Categories = append(out.Categories, key)
		}
		out.Groups[key] = append(out.Groups[key], r)
	}
	return out
}

// Sections returns the groups in category order.
func (g RecipesByCategory) Sections() []CategorySection {
	sections := make([]CategorySection, 0, len(g.Categories))
	for _, name := range g.Categories {
		sections = append(sections, CategorySection{Name: name, Recipes: g.Groups[name]})
	}
	return sections
}

// Total returns the number of grouped recipes.
func (g RecipesByCategory) Total() int {
	n := 0
	for _, rs := range g.Groups {
		n += len(rs)
	}
	return n
}

// FirstCategory returns the first category, or recipe.DefaultCategory when empty.
func (g RecipesByCategory) FirstCategory() string {
	if len(g.Categories) == 0 {
		return recipe.DefaultCategory
	}
	return g.Categories[0]
}
