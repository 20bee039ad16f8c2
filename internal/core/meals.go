package core

import (
	"context"

	"recipecost/internal/recordstore"
	"recipecost/pkg/domain"
)

// Meals persists meals with load-append-save on every Add.
type Meals struct {
	collection
	items []domain.Meal
}

// NewMeals returns a meal collection.
func NewMeals(store *recordstore.Store, opts ...Option) *Meals {
	return &Meals{collection: newCollection(store, opts)}
}

// LoadAll reads every meal stored in fileName.
func (c *Meals) LoadAll(ctx context.Context, fileName string) []domain.Meal {
	items, err := recordstore.Load[domain.Meal](ctx, c.store, fileName, domain.MarkerMeal)
	if err != nil {
		c.loadFailed("meals", err)
	}
	return items
}

// Add appends meal to the meals stored in fileName and rewrites it. It
// reports whether the rewrite succeeded.
func (c *Meals) Add(ctx context.Context, meal domain.Meal, fileName string) bool {
	items := append(c.LoadAll(ctx, fileName), meal)
	if err := recordstore.Save(ctx, c.store, fileName, domain.MarkerMeal, items); err != nil {
		c.saveFailed("meals", err)
		return false
	}
	c.log.Info("saved meal %q (%d total) to %s", meal.Name, len(items), fileName)
	return true
}

// CreateFromSelection builds a meal from the selected recipes, persists it
// and prints a summary. Nothing is summarised when the meal was not stored.
func (c *Meals) CreateFromSelection(ctx context.Context, name string, selected []domain.Recipe, fileName string) domain.Meal {
	meal := domain.NewMeal(name, selected)
	if !c.Add(ctx, meal, fileName) {
		return meal
	}
	c.printf("Meal Name: %s\nTotal Cost: %s\nSelected Recipes:\n", name, formatCost(meal.TotalCost()))
	for _, r := range selected {
		c.printf("- %s\n", r.Name)
	}
	return meal
}

// List reloads fileName into memory and prints each meal's name and total.
func (c *Meals) List(ctx context.Context, fileName string) {
	c.items = c.LoadAll(ctx, fileName)
	if len(c.items) == 0 {
		c.printf("No meals found to list.\n")
		return
	}
	for i, m := range c.items {
		c.printf("\nMeal %d:\n    Name: %s\n    Total Cost: %s\n", i+1, m.Name, formatCost(m.TotalCost()))
	}
	c.printf("%s\n", separator)
}

// Meals returns a copy of the meals read by the last List.
func (c *Meals) Meals() []domain.Meal {
	return append([]domain.Meal(nil), c.items...)
}
