package navigation

import (
	"maps"

	"github.com/thali-menu/api/internal/cart"
	"github.com/thali-menu/api/internal/dish"
)

// SummaryPayload is handed to the summary screen on "Continue". It is a value
// built from copies, so later cart edits do not reach a summary already shown.
type SummaryPayload struct {
	SelectedDishes []dish.Dish   `json:"selected_dishes"`
	Quantities     map[int64]int `json:"quantities"`
}

// IngredientPayload is handed to the ingredients screen for one dish.
type IngredientPayload struct {
	Dish dish.Dish `json:"dish"`
}

// DishEntry pairs a dish with its id, the shape some list renderers key by.
type DishEntry struct {
	ID   int64     `json:"id"`
	Dish dish.Dish `json:"dish"`
}

// BuildSummaryPayload snapshots c against catalog.
func BuildSummaryPayload(catalog []dish.Dish, c *cart.Cart) SummaryPayload {
	selected := c.SelectedDishes(catalog)
	dishes := make([]dish.Dish, len(selected))
	for i, d := range selected {
		dishes[i] = d.Clone()
	}
	return SummaryPayload{
		SelectedDishes: dishes,
		Quantities:     c.Snapshot(),
	}
}

// BuildIngredientPayload passes d through unchanged.
func BuildIngredientPayload(d dish.Dish) IngredientPayload {
	return IngredientPayload{Dish: d}
}

// Quantity returns the quantity recorded for dishID, zero if absent.
func (p SummaryPayload) Quantity(dishID int64) int {
	return p.Quantities[dishID]
}

// Entries returns the selected dishes as id/dish pairs, in order.
func (p SummaryPayload) Entries() []DishEntry {
	out := make([]DishEntry, len(p.SelectedDishes))
	for i, d := range p.SelectedDishes {
		out[i] = DishEntry{ID: d.ID, Dish: d}
	}
	return out
}

// Selection returns the payload as a boolean selection set.
func (p SummaryPayload) Selection() map[int64]bool {
	out := make(map[int64]bool, len(p.Quantities))
	for id := range p.Quantities {
		out[id] = true
	}
	return out
}

// TotalItemCount sums the quantities of the selected dishes.
func (p SummaryPayload) TotalItemCount() int {
	total := 0
	for _, d := range p.SelectedDishes {
		total += p.Quantities[d.ID]
	}
	return total
}

// Clone returns a deep copy, for handing a payload across a goroutine or
// serialization boundary.
func (p SummaryPayload) Clone() SummaryPayload {
	dishes := make([]dish.Dish, len(p.SelectedDishes))
	for i, d := range p.SelectedDishes {
		dishes[i] = d.Clone()
	}
	q := maps.Clone(p.Quantities)
	if q == nil {
		q = map[int64]int{}
	}
	return SummaryPayload{SelectedDishes: dishes, Quantities: q}
}
