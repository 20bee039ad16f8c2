package domain

// Selection is one ingredient picked for a recipe along with how many units
// of it the recipe uses.
type Selection struct {
	Ingredient Ingredient
	Quantity   int
}

// CostOf sums price × quantity over the selections.
func CostOf(selections []Selection) float64 {
	var total float64
	for _, s := range selections {
		total += float64(s.Ingredient.Price) * float64(s.Quantity)
	}
	return total
}

// SelectedIngredients returns the selected ingredients in order, duplicates kept.
func SelectedIngredients(selections []Selection) []Ingredient {
	out := make([]Ingredient, 0, len(selections))
	for _, s := range selections {
		out = append(out, s.Ingredient)
	}
	return out
}
