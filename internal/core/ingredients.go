package core

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"recipecost/internal/recordstore"
	"recipecost/pkg/domain"
)

// Ingredients is the in-memory ingredient list. Mutations stay in memory
// until Save is called.
type Ingredients struct {
	collection
	items []domain.Ingredient
}

// NewIngredients returns an empty ingredient collection.
func NewIngredients(store *recordstore.Store, opts ...Option) *Ingredients {
	return &Ingredients{collection: newCollection(store, opts)}
}

// Add appends ingredient in memory.
func (c *Ingredients) Add(ingredient domain.Ingredient) {
	c.items = append(c.items, ingredient)
}

// Save writes the whole list to fileName and reports whether it was stored.
func (c *Ingredients) Save(ctx context.Context, fileName string) bool {
	if err := recordstore.Save(ctx, c.store, fileName, domain.MarkerIngredient, c.items); err != nil {
		c.saveFailed("ingredients", err)
		return false
	}
	c.log.Info("saved %d ingredients to %s", len(c.items), fileName)
	return true
}

// Load replaces the list with the contents of fileName. On a read failure
// the ingredients decoded before the failure are kept.
func (c *Ingredients) Load(ctx context.Context, fileName string) {
	items, err := recordstore.Load[domain.Ingredient](ctx, c.store, fileName, domain.MarkerIngredient)
	if err != nil {
		c.loadFailed("ingredients", err)
	}
	c.items = items
}

// Lines renders each ingredient with its position, name and price.
func (c *Ingredients) Lines() iter.Seq[string] {
	items := c.All()
	return func(yield func(string) bool) {
		for i, ing := range items {
			if !yield(fmt.Sprintf("Ingredient %d:\n    Name: %s\n    Price: %d$", i+1, ing.Name, ing.Price)) {
				return
			}
		}
	}
}

// List prints every ingredient.
func (c *Ingredients) List() {
	if len(c.items) == 0 {
		c.printf("No ingredients found to list.\n")
		return
	}
	for line := range c.Lines() {
		c.printf("\n%s\n%s\n", line, separator)
	}
}

// EditPrice sets the price of the first ingredient named exactly name.
// The match is case-sensitive, unlike FindByName.
func (c *Ingredients) EditPrice(name string, newPrice int) bool {
	for i := range c.items {
		if c.items[i].Name == name {
			c.items[i].SetPrice(newPrice)
			c.printf("The price of %s has been successfully updated.\n", name)
			return true
		}
	}
	c.printf("The price of the specified ingredient could not be found.\n")
	return false
}

// FindByName returns the first ingredient whose name equals name ignoring case.
func (c *Ingredients) FindByName(name string) (domain.Ingredient, bool) {
	if i := c.indexFold(name); i >= 0 {
		return c.items[i], true
	}
	return domain.Ingredient{}, false
}

// Remove deletes the first ingredient whose name equals name ignoring case.
func (c *Ingredients) Remove(name string) bool {
	i := c.indexFold(name)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

func (c *Ingredients) indexFold(name string) int {
	for i := range c.items {
		if strings.EqualFold(c.items[i].Name, name) {
			return i
		}
	}
	return -1
}

// All returns a copy of the list.
func (c *Ingredients) All() []domain.Ingredient {
	return append([]domain.Ingredient(nil), c.items...)
}

// Len returns the number of ingredients in memory.
func (c *Ingredients) Len() int { return len(c.items) }
