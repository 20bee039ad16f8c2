package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"recipecost/pkg/domain"
)

const aboutText = `Recipe Cost Calculator

Keep a price list of ingredients, build recipes from them with the quantity
each one needs, and group recipes into meals. Recipe costs are the sum of
price times quantity over the chosen ingredients. Meal costs are the sum of
their recipes. Guests may browse everything but change nothing.`

func (c *Console) gateMenu() menu {
	return menu{title: "Welcome", items: []item{
		{key: "r", label: "Register", run: c.register},
		{key: "l", label: "Login", run: c.login},
		{key: "g", label: "Guest Mode", run: c.guest},
		{key: "e", label: "Exit", run: c.exit},
	}}
}

func (c *Console) mainMenu() menu {
	return menu{title: "Main Menu", items: []item{
		{key: "i", label: "Ingredient Management", run: c.sub(c.ingredientMenu)},
		{key: "r", label: "Recipe Costing", run: c.sub(c.recipeMenu)},
		{key: "p", label: "Plan Meals", run: c.sub(c.mealMenu)},
		{key: "a", label: "About", run: c.about},
		{key: "e", label: "Exit", run: c.exit},
	}}
}

func (c *Console) ingredientMenu() menu {
	return menu{title: "Ingredient Management", items: []item{
		{key: "a", label: "Add Ingredient", members: true, run: c.addIngredient},
		{key: "v", label: "View Ingredients", run: c.viewIngredients},
		{key: "e", label: "Edit Ingredient", members: true, run: c.editIngredient},
		{key: "r", label: "Remove Ingredient", members: true, run: c.removeIngredient},
		{key: "m", label: "Main Menu", run: back},
	}}
}

func (c *Console) recipeMenu() menu {
	return menu{title: "Recipe Costing", items: []item{
		{key: "c", label: "Create Recipe", members: true, run: c.createRecipe},
		{key: "v", label: "View Recipes", run: c.viewRecipes},
		{key: "m", label: "Main Menu", run: back},
	}}
}

func (c *Console) mealMenu() menu {
	return menu{title: "Plan Meals", items: []item{
		{key: "c", label: "Create Meal", members: true, run: c.createMeal},
		{key: "v", label: "View Meals", run: c.viewMeals},
		{key: "m", label: "Main Menu", run: back},
	}}
}

func back(context.Context) bool { return true }

func (c *Console) sub(build func() menu) func(context.Context) bool {
	return func(ctx context.Context) bool {
		c.runMenu(ctx, build())
		return false
	}
}

func (c *Console) exit(context.Context) bool {
	c.quit = true
	return true
}

func (c *Console) about(context.Context) bool {
	c.println(c.st.hint.Render(aboutText))
	return false
}

func (c *Console) register(ctx context.Context) bool {
	username, ok := c.readLine("Username: ")
	if !ok {
		return true
	}
	password, ok := c.readLine("Password: ")
	if !ok {
		return true
	}
	if c.c.Credentials.Register(ctx, domain.User{Username: username, Password: password}, c.files.Credentials) {
		c.okf("User registered successfully.")
	} else {
		c.warnf("Registration failed. Please try again later.")
	}
	return false
}

func (c *Console) login(ctx context.Context) bool {
	username, ok := c.readLine("Username: ")
	if !ok {
		return true
	}
	password, ok := c.readLine("Password: ")
	if !ok {
		return true
	}
	if !c.c.Credentials.Authenticate(ctx, username, password, c.files.Credentials) {
		c.warnf("Incorrect username or password. Please try again.")
		return false
	}
	c.okf("Welcome, %s!", username)
	c.enter(ctx, Member)
	return false
}

func (c *Console) guest(ctx context.Context) bool {
	c.enter(ctx, Guest)
	return false
}

func (c *Console) enter(ctx context.Context, mode Mode) {
	c.mode = mode
	c.log.Info("session started (mode=%s)", mode)
	c.runMenu(ctx, c.mainMenu())
}

func (m Mode) String() string {
	if m == Guest {
		return "guest"
	}
	return "member"
}

func (c *Console) addIngredient(ctx context.Context) bool {
	name, ok := c.readLine("Ingredient name: ")
	if !ok {
		return true
	}
	price, ok := c.readInt("Ingredient price: ")
	if !ok {
		return true
	}
	ings := c.c.Ingredients
	ings.Load(ctx, c.files.Ingredients)
	ings.Add(domain.NewIngredient(name, price))
	if ings.Save(ctx, c.files.Ingredients) {
		c.okf("Ingredient added successfully.")
	}
	return false
}

func (c *Console) viewIngredients(ctx context.Context) bool {
	c.c.Ingredients.Load(ctx, c.files.Ingredients)
	c.c.Ingredients.List()
	return false
}

func (c *Console) editIngredient(ctx context.Context) bool {
	ings := c.c.Ingredients
	ings.Load(ctx, c.files.Ingredients)
	ings.List()
	if ings.Len() == 0 {
		return false
	}
	name, ok := c.readLine("Name of the ingredient to edit: ")
	if !ok {
		return true
	}
	found, exists := ings.FindByName(name)
	if !exists {
		c.warnf("Ingredient not found. Please enter a valid name.")
		return false
	}
	price, ok := c.readInt(fmt.Sprintf("New price for %s: ", found.Name))
	if !ok {
		return true
	}
	if ings.EditPrice(found.Name, price) {
		ings.Save(ctx, c.files.Ingredients)
	}
	return false
}

func (c *Console) removeIngredient(ctx context.Context) bool {
	ings := c.c.Ingredients
	ings.Load(ctx, c.files.Ingredients)
	ings.List()
	if ings.Len() == 0 {
		return false
	}
	name, ok := c.readLine("Name of the ingredient to remove: ")
	if !ok {
		return true
	}
	if !ings.Remove(name) {
		c.warnf("Ingredient not found. Please enter a valid name.")
		return false
	}
	if ings.Save(ctx, c.files.Ingredients) {
		c.okf("Ingredient removed successfully.")
	}
	return false
}

func (c *Console) createRecipe(ctx context.Context) bool {
	ings := c.c.Ingredients
	ings.Load(ctx, c.files.Ingredients)
	available := ings.All()
	if len(available) == 0 {
		c.warnf("No ingredients available. Add some ingredients first.")
		return false
	}
	name, ok := c.readLine("Recipe name: ")
	if !ok {
		return true
	}
	c.println(c.st.heading.Render("Available Ingredients:"))
	for i, ing := range available {
		c.println(fmt.Sprintf("%d. %s - Price: %d$", i+1, ing.Name, ing.Price))
	}
	var selections []domain.Selection
	for {
		line, ok := c.readLine("Ingredient number (q to finish): ")
		if !ok {
			return true
		}
		if strings.EqualFold(line, "q") {
			break
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(available) {
			c.warnf("Invalid ingredient number. Please try again.")
			continue
		}
		qty, ok := c.readInt(fmt.Sprintf("Quantity of %s: ", available[n-1].Name))
		if !ok {
			return true
		}
		selections = append(selections, domain.Selection{Ingredient: available[n-1], Quantity: qty})
	}
	c.c.Recipes.CreateFromSelection(ctx, name, domain.CostOf(selections), domain.SelectedIngredients(selections), c.files.Recipes)
	return false
}

func (c *Console) viewRecipes(ctx context.Context) bool {
	c.c.Recipes.List(ctx, c.files.Recipes)
	return false
}

func (c *Console) createMeal(ctx context.Context) bool {
	c.c.Recipes.List(ctx, c.files.Recipes)
	available := c.c.Recipes.Recipes()
	if len(available) == 0 {
		return false
	}
	name, ok := c.readLine("Meal name: ")
	if !ok {
		return true
	}
	var selected []domain.Recipe
	for {
		line, ok := c.readLine("Recipe number (q to finish): ")
		if !ok {
			return true
		}
		if strings.EqualFold(line, "q") {
			break
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(available) {
			c.warnf("Invalid recipe number. Please try again.")
			continue
		}
		selected = append(selected, available[n-1])
	}
	c.c.Meals.CreateFromSelection(ctx, name, selected, c.files.Meals)
	return false
}

func (c *Console) viewMeals(ctx context.Context) bool {
	c.c.Meals.List(ctx, c.files.Meals)
	return false
}
