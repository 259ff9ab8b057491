package screen

import (
	"github.com/thali-menu/api/internal/navigation"
)

// placeholderIngredients is shown for dishes whose record lists none.
var placeholderIngredients = []string{"Ingredients not available"}

type IngredientsView struct {
	Title       string   `json:"title"`
	DishID      int64    `json:"dish_id"`
	DishName    string   `json:"dish_name"`
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
	Placeholder bool     `json:"placeholder"`
}

// IngredientsController renders one dish's ingredient list. It has no state
// beyond the payload it was opened with.
type IngredientsController struct {
	payload navigation.IngredientPayload
}

func NewIngredientsController(p navigation.IngredientPayload) *IngredientsController {
	return &IngredientsController{payload: p}
}

func (c *IngredientsController) View() IngredientsView {
	d := c.payload.Dish
	v := IngredientsView{
		Title:       d.Name + " Ingredients",
		DishID:      d.ID,
		DishName:    d.Name,
		Image:       d.Image,
		Ingredients: append([]string(nil), d.Ingredients...),
	}
	if len(v.Ingredients) == 0 {
		v.Ingredients = append([]string(nil), placeholderIngredients...)
		v.Placeholder = true
	}
	return v
}
