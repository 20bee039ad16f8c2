package core

import (
	"context"

	"recipecost/internal/recordstore"
	"recipecost/pkg/domain"
)

// Recipes persists recipes with load-append-save on every Add.
type Recipes struct {
	collection
	items []domain.Recipe
}

// NewRecipes returns a recipe collection.
func NewRecipes(store *recordstore.Store, opts ...Option) *Recipes {
	return &Recipes{collection: newCollection(store, opts)}
}

// LoadAll reads every recipe stored in fileName.
func (c *Recipes) LoadAll(ctx context.Context, fileName string) []domain.Recipe {
	items, err := recordstore.Load[domain.Recipe](ctx, c.store, fileName, domain.MarkerRecipe)
	if err != nil {
		c.loadFailed("recipes", err)
	}
	return items
}

// Add appends recipe to the recipes stored in fileName and rewrites it. It
// reports whether the rewrite succeeded.
func (c *Recipes) Add(ctx context.Context, recipe domain.Recipe, fileName string) bool {
	items := append(c.LoadAll(ctx, fileName), recipe)
	if err := recordstore.Save(ctx, c.store, fileName, domain.MarkerRecipe, items); err != nil {
		c.saveFailed("recipes", err)
		return false
	}
	c.log.Info("saved recipe %q (%d total) to %s", recipe.Name, len(items), fileName)
	return true
}

// CreateFromSelection prints a summary, builds a recipe carrying totalCost
// and persists it.
func (c *Recipes) CreateFromSelection(ctx context.Context, name string, totalCost float64, selected []domain.Ingredient, fileName string) domain.Recipe {
	c.printf("\nRecipe Name: %s\nTotal Cost: %s\nIngredients:\n", name, formatCost(totalCost))
	for _, ing := range selected {
		c.printf("- %s: %d$ per unit\n", ing.Name, ing.Price)
	}
	recipe := domain.NewRecipe(name, selected, totalCost)
	c.Add(ctx, recipe, fileName)
	return recipe
}

// List reloads fileName into memory and prints each recipe with its ingredients.
func (c *Recipes) List(ctx context.Context, fileName string) {
	c.items = c.LoadAll(ctx, fileName)
	if len(c.items) == 0 {
		c.printf("No recipes found to list.\n")
		return
	}
	for i, r := range c.items {
		c.printf("\nRecipe %d:\n    Name: %s\n    Total Cost: %s\n    Ingredients:\n", i+1, r.Name, formatCost(r.TotalCost))
		for _, ing := range r.Ingredients {
			c.printf("        - %s: %d$ per unit\n", ing.Name, ing.Price)
		}
	}
	c.printf("%s\n", separator)
}

// Recipes returns a copy of the recipes read by the last List.
func (c *Recipes) Recipes() []domain.Recipe {
	return append([]domain.Recipe(nil), c.items...)
}
