package screen

import (
	"fmt"

	"github.com/thali-menu/api/internal/enum"
	"github.com/thali-menu/api/internal/navigation"
)

// Rendered is the view of whichever screen is on top of the stack. Exactly
// one of Menu, Ingredients and Summary is set, matching Screen.
type Rendered struct {
	Screen      enum.Screen      `json:"screen"`
	Menu        *MenuView        `json:"menu,omitempty"`
	Ingredients *IngredientsView `json:"ingredients,omitempty"`
	Summary     *SummaryView     `json:"summary,omitempty"`
}

// Render builds the view for entry. The menu controller is used for the
// menu screen; the other screens render from their payloads alone.
func Render(entry navigation.Entry, menu *MenuController) (Rendered, error) {
	r := Rendered{Screen: entry.Screen}
	switch entry.Screen {
	case enum.ScreenMenu:
		v := menu.View()
		r.Menu = &v
	case enum.ScreenIngredients:
		p, ok := entry.Payload.(navigation.IngredientPayload)
		if !ok {
			return Rendered{}, fmt.Errorf("ingredients screen opened with %T", entry.Payload)
		}
		v := NewIngredientsController(p).View()
		r.Ingredients = &v
	case enum.ScreenSummary:
		p, ok := entry.Payload.(navigation.SummaryPayload)
		if !ok {
			return Rendered{}, fmt.Errorf("summary screen opened with %T", entry.Payload)
		}
		v := NewSummaryController(p).View()
		r.Summary = &v
	default:
		return Rendered{}, fmt.Errorf("unknown screen %q", entry.Screen)
	}
	return r, nil
}
