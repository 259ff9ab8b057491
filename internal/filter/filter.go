// Package filter narrows a dish catalog by search text, diet and meal category.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/thali-menu/api/internal/dish"
	"github.com/thali-menu/api/internal/enum"
)

// Criteria is the transient filter state of a menu. The zero value matches
// every dish.
type Criteria struct {
	SearchText string            `json:"search_text"`
	Diet       enum.DietFilter   `json:"diet"`
	Category   enum.MealCategory `json:"category,omitempty"`
}

// IsZero reports whether c matches every dish.
func (c Criteria) IsZero() bool {
	return c.SearchText == "" &&
		(c.Diet == "" || c.Diet == enum.DietFilterAll) &&
		c.Category == enum.CategoryUnknown
}

// Apply returns the dishes matching c, in catalog order. The catalog is not
// modified and the result is never nil.
func Apply(catalog []dish.Dish, c Criteria) []dish.Dish {
	m := newMatcher(c)
	out := make([]dish.Dish, 0, len(catalog))
	for _, d := range catalog {
		if m.match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Matches reports whether a single dish satisfies c.
func Matches(d dish.Dish, c Criteria) bool {
	return newMatcher(c).match(d)
}

// matcher holds the folded search text so it is computed once per Apply.
// cases.Caser is stateful, so each matcher owns its own.
type matcher struct {
	c      Criteria
	fold   cases.Caser
	needle string
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{c: c, fold: cases.Fold()}
	m.needle = m.fold.String(c.SearchText)
	return m
}

func (m *matcher) match(d dish.Dish) bool {
	return m.matchSearch(d) && m.matchDiet(d) && m.matchCategory(d)
}

func (m *matcher) matchSearch(d dish.Dish) bool {
	if m.needle == "" {
		return true
	}
	return strings.Contains(m.fold.String(d.Name), m.needle)
}

func (m *matcher) matchDiet(d dish.Dish) bool {
	switch m.c.Diet {
	case "", enum.DietFilterAll:
		return true
	case enum.DietFilterVeg:
		return d.DietType == enum.DietVeg
	case enum.DietFilterNonVeg:
		return d.DietType == enum.DietNonVeg
	}
	return false
}

func (m *matcher) matchCategory(d dish.Dish) bool {
	if m.c.Category == enum.CategoryUnknown {
		return true
	}
	return d.MealCategory == m.c.Category
}
