// Package dish defines the canonical dish record and the one place where loose
// catalog records are normalized into it.
package dish

import (
	"strings"

	"github.com/thali-menu/api/internal/enum"
)

// PlaceholderImage is served for dishes whose source record has no image.
const PlaceholderImage = "https://via.placeholder.com/100"

// Category is the catalog's own grouping metadata. It is carried through
// unchanged and never interpreted by filtering or cart logic.
type Category struct {
	ID                             int64  `json:"id"`
	Name                           string `json:"name"`
	Image                          string `json:"image"`
	IsRecommendedForMealSuggestion bool   `json:"isRecommendedForMealSuggestion"`
}

// Dish is one menu item. ID must be unique within a catalog: the cart keys
// quantities by it, so duplicate ids silently share one cart entry.
type Dish struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Image        string            `json:"image"`
	DietType     enum.DietType     `json:"dietType"`
	MealCategory enum.MealCategory `json:"mealCategory"`
	Ingredients  []string          `json:"ingredients"`

	NameHi     string    `json:"nameHi,omitempty"`
	NameBn     string    `json:"nameBn,omitempty"`
	CategoryID int64     `json:"categoryId,omitempty"`
	Category   *Category `json:"category,omitempty"`
	DishType   string    `json:"dishType,omitempty"`
	ForChefit  bool      `json:"forChefit,omitempty"`
	ForParty   bool      `json:"forParty,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with d.
func (d Dish) Clone() Dish {
	c := d
	if d.Ingredients != nil {
		c.Ingredients = append([]string(nil), d.Ingredients...)
	}
	if d.Category != nil {
		cat := *d.Category
		c.Category = &cat
	}
	return c
}

// RawDish is a catalog record as it arrives from a provider, before
// normalization. Diet is spelled three different ways across sources.
type RawDish struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	DietType    string    `json:"dietType"`
	Type        string    `json:"type"`
	IsVeg       *bool     `json:"isVeg"`
	MealType    string    `json:"mealType"`
	Ingredients []string  `json:"ingredients"`
	NameHi      string    `json:"nameHi"`
	NameBn      string    `json:"nameBn"`
	CategoryID  int64     `json:"categoryId"`
	Category    *Category `json:"category"`
	DishType    string    `json:"dishType"`
	ForChefit   bool      `json:"forChefit"`
	ForParty    bool      `json:"forParty"`
}

// Normalize converts a raw record into a Dish. Malformed fields degrade to
// their unknown / placeholder values instead of failing.
func Normalize(r RawDish) Dish {
	d := Dish{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Image:        PlaceholderImage,
		DietType:     normalizeDiet(r),
		MealCategory: enum.ParseMealCategory(r.MealType),
		Ingredients:  append([]string{}, r.Ingredients...),
		NameHi:       r.NameHi,
		NameBn:       r.NameBn,
		CategoryID:   r.CategoryID,
		DishType:     r.DishType,
		ForChefit:    r.ForChefit,
		ForParty:     r.ForParty,
	}
	if r.Image != nil && strings.TrimSpace(*r.Image) != "" {
		d.Image = *r.Image
	}
	if r.Category != nil {
		cat := *r.Category
		d.Category = &cat
	}
	return d
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(raw []RawDish) []Dish {
	dishes := make([]Dish, len(raw))
	for i, r := range raw {
		dishes[i] = Normalize(r)
	}
	return dishes
}

// normalizeDiet prefers the explicit dietType, then the legacy type string,
// then the isVeg flag.
func normalizeDiet(r RawDish) enum.DietType {
	if d := enum.ParseDietType(r.DietType); d != enum.DietUnknown {
		return d
	}
	if d := enum.ParseDietType(r.Type); d != enum.DietUnknown {
		return d
	}
	if r.IsVeg != nil {
		if *r.IsVeg {
			return enum.DietVeg
		}
		return enum.DietNonVeg
	}
	return enum.DietUnknown
}

// DuplicateIDs returns ids that occur more than once, in first-seen order.
func DuplicateIDs(dishes []Dish) []int64 {
	seen := make(map[int64]int, len(dishes))
	var dups []int64
	for _, d := range dishes {
		seen[d.ID]++
		if seen[d.ID] == 2 {
			dups = append(dups, d.ID)
		}
	}
	return dups
}

// Find returns the dish with the given id.
func Find(dishes []Dish, id int64) (Dish, bool) {
	for _, d := range dishes {
		if d.ID == id {
			return d, true
		}
	}
	return Dish{}, false
}
