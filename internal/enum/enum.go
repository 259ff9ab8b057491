package enum

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDietFilter     = errors.New("invalid diet filter")
	ErrInvalidCategoryFilter = errors.New("invalid category filter")
)

// ── Group A: Dish classification (normalized once at catalog load) ──

// DietType is the canonical veg / non-veg classification of a dish.
// The zero value means the source record carried no recognizable diet.
type DietType string

const (
	DietUnknown DietType = ""
	DietVeg     DietType = "VEG"
	DietNonVeg  DietType = "NON_VEG"
)

// MealCategory is the canonical course classification of a dish.
// The zero value means the source record carried no recognizable category.
type MealCategory string

const (
	CategoryUnknown    MealCategory = ""
	CategoryStarter    MealCategory = "STARTER"
	CategoryMainCourse MealCategory = "MAIN_COURSE"
	CategoryDessert    MealCategory = "DESSERT"
	CategorySides      MealCategory = "SIDES"
)

// MealCategories lists the known categories in menu display order.
var MealCategories = []MealCategory{
	CategoryStarter,
	CategoryMainCourse,
	CategoryDessert,
	CategorySides,
}

// ── Group B: Filter inputs (three-state diet toggle, optional category) ──

type DietFilter string

const (
	DietFilterAll    DietFilter = "ALL"
	DietFilterVeg    DietFilter = "VEG"
	DietFilterNonVeg DietFilter = "NON_VEG"
)

// ── Group C: Screens on the navigation stack ──

type Screen string

const (
	ScreenMenu        Screen = "MenuScreen"
	ScreenIngredients Screen = "IngredientScreen"
	ScreenSummary     Screen = "SummaryScreen"
)

// ParseDietType maps the loose source spellings ("veg", "Non-Veg", "NONVEG")
// onto DietType. Unrecognized input yields DietUnknown.
func ParseDietType(s string) DietType {
	switch canonical(s) {
	case "VEG", "VEGETARIAN":
		return DietVeg
	case "NON_VEG", "NONVEG", "NON_VEGETARIAN":
		return DietNonVeg
	}
	return DietUnknown
}

// ParseMealCategory maps source spellings such as "MAIN COURSE" onto
// MealCategory. Unrecognized input yields CategoryUnknown.
func ParseMealCategory(s string) MealCategory {
	switch canonical(s) {
	case "STARTER", "STARTERS":
		return CategoryStarter
	case "MAIN_COURSE", "MAINCOURSE", "MAIN":
		return CategoryMainCourse
	case "DESSERT", "DESSERTS":
		return CategoryDessert
	case "SIDES", "SIDE":
		return CategorySides
	}
	return CategoryUnknown
}

// ParseDietFilter parses a client-supplied diet filter. Empty means ALL.
func ParseDietFilter(s string) (DietFilter, error) {
	switch canonical(s) {
	case "", "ALL":
		return DietFilterAll, nil
	case "VEG":
		return DietFilterVeg, nil
	case "NON_VEG", "NONVEG":
		return DietFilterNonVeg, nil
	}
	return "", ErrInvalidDietFilter
}

// ParseCategoryFilter parses a client-supplied category filter.
// Empty and "ALL" both mean unset and return CategoryUnknown.
func ParseCategoryFilter(s string) (MealCategory, error) {
	c := canonical(s)
	if c == "" || c == "ALL" {
		return CategoryUnknown, nil
	}
	if mc := ParseMealCategory(c); mc != CategoryUnknown {
		return mc, nil
	}
	return "", ErrInvalidCategoryFilter
}

func canonical(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
