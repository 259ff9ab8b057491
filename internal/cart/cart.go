// Package cart holds the per-session dish quantities of a menu.
//
// Quantities are keyed by dish id and are always positive: a quantity that
// drops to zero is removed, so "selected" and "present" mean the same thing.
package cart

import (
	"maps"

	"github.com/thali-menu/api/internal/dish"
)

// Cart maps dish ids to selected quantities. It is not safe for concurrent
// use; callers serialize access per session.
type Cart struct {
	quantities map[int64]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{quantities: make(map[int64]int)}
}

// Increment adds one of dishID and returns the new quantity. There is no
// upper bound.
func (c *Cart) Increment(dishID int64) int {
	c.quantities[dishID]++
	return c.quantities[dishID]
}

// Decrement removes one of dishID and returns the new quantity. Decrementing
// an absent dish is a no-op.
func (c *Cart) Decrement(dishID int64) int {
	q, ok := c.quantities[dishID]
	if !ok {
		return 0
	}
	if q <= 1 {
		delete(c.quantities, dishID)
		return 0
	}
	c.quantities[dishID] = q - 1
	return q - 1
}

// ToggleSelect flips dishID between unselected and a quantity of one, for
// menus that model selection instead of quantity. It returns whether the
// dish is selected afterwards.
func (c *Cart) ToggleSelect(dishID int64) bool {
	if _, ok := c.quantities[dishID]; ok {
		delete(c.quantities, dishID)
		return false
	}
	c.quantities[dishID] = 1
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	clear(c.quantities)
}

func (c *Cart) Quantity(dishID int64) int {
	return c.quantities[dishID]
}

func (c *Cart) Selected(dishID int64) bool {
	_, ok := c.quantities[dishID]
	return ok
}

// SelectedDishes returns the catalog dishes present in the cart, in catalog
// order. Cart ids missing from the catalog are ignored.
func (c *Cart) SelectedDishes(catalog []dish.Dish) []dish.Dish {
	out := make([]dish.Dish, 0, len(c.quantities))
	for _, d := range catalog {
		if c.Selected(d.ID) {
			out = append(out, d)
		}
	}
	return out
}

// TotalItemCount is the sum of all quantities.
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, q := range c.quantities {
		total += q
	}
	return total
}

// SelectedCount is the number of distinct selected dishes.
func (c *Cart) SelectedCount() int {
	return len(c.quantities)
}

// Snapshot returns a copy of the quantities that later mutations of c do not
// affect.
func (c *Cart) Snapshot() map[int64]int {
	return maps.Clone(c.quantities)
}
