// Package domain defines the kitchen records persisted by recipecost:
// ingredients, recipes built from them, meals built from recipes, and the
// credentials that gate member access.
package domain

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
)

// Record markers written after every persisted record of the matching type.
const (
	MarkerIngredient = "#END_INGREDIENT#"
	MarkerRecipe     = "#END_RECIPE#"
	MarkerMeal       = "#END_MEAL#"
)

// Conventional store file names, one per record type.
const (
	IngredientsFile = "ingredients.bin"
	RecipesFile     = "recipes.bin"
	MealsFile       = "meals.bin"
	CredentialsFile = "register.bin"
)

// Ingredient is a priced pantry item. Identity is by name.
type Ingredient struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// NewIngredient returns an Ingredient with the given name and price.
func NewIngredient(name string, price int) Ingredient {
	return Ingredient{Name: name, Price: price}
}

// SetPrice changes the price in place.
func (i *Ingredient) SetPrice(price int) { i.Price = price }

// Recipe groups ingredients under a name. TotalCost is supplied by the caller
// when the recipe is built and is not recomputed if Ingredients later change.
type Recipe struct {
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
	TotalCost   float64      `json:"total_cost"`
	Quantity    int          `json:"quantity"`
}

// NewRecipe copies ingredients into a new Recipe carrying totalCost.
func NewRecipe(name string, ingredients []Ingredient, totalCost float64) Recipe {
	return Recipe{Name: name, Ingredients: append([]Ingredient(nil), ingredients...), TotalCost: totalCost}
}

// SetQuantity records how many servings the recipe yields.
func (r *Recipe) SetQuantity(q int) { r.Quantity = q }

// Meal combines recipes. Its total is fixed when the meal is built.
type Meal struct {
	Name    string
	Recipes []Recipe
	total   float64
}

// NewMeal builds a meal whose total cost is the sum of the recipes' totals.
func NewMeal(name string, recipes []Recipe) Meal {
	var total float64
	for _, r := range recipes {
		total += r.TotalCost
	}
	return Meal{Name: name, Recipes: append([]Recipe(nil), recipes...), total: total}
}

// TotalCost returns the cost computed at construction.
func (m Meal) TotalCost() float64 { return m.total }

// mealWire is the persisted shape of a Meal. The stored total is restored
// verbatim on decode.
type mealWire struct {
	Name      string   `json:"name"`
	Recipes   []Recipe `json:"recipes"`
	TotalCost float64  `json:"total_cost"`
}

func (m Meal) wire() mealWire {
	return mealWire{Name: m.Name, Recipes: m.Recipes, TotalCost: m.total}
}

func (m *Meal) fromWire(w mealWire) {
	m.Name = w.Name
	m.Recipes = w.Recipes
	m.total = w.TotalCost
}

// MarshalJSON implements json.Marshaler.
func (m Meal) MarshalJSON() ([]byte, error) { return json.Marshal(m.wire()) }

// UnmarshalJSON implements json.Unmarshaler.
func (m *Meal) UnmarshalJSON(b []byte) error {
	var w mealWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	m.fromWire(w)
	return nil
}

// GobEncode implements gob.GobEncoder.
func (m Meal) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.wire()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *Meal) GobDecode(b []byte) error {
	var w mealWire
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return err
	}
	m.fromWire(w)
	return nil
}

// User is a plaintext credential pair.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Matches reports exact equality on both username and password.
func (u User) Matches(username, password string) bool {
	return u.Username == username && u.Password == password
}
