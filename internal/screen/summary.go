package screen

import (
	"github.com/thali-menu/api/internal/dish"
	"github.com/thali-menu/api/internal/navigation"
)

const (
	SummaryHeader       = "Your Selected Items"
	SummaryEmptyMessage = "No items selected."
)

type SummaryLine struct {
	Dish     dish.Dish `json:"dish"`
	Quantity int       `json:"quantity"`
}

// SummaryView is the read-only selection review. When nothing was selected,
// Empty is set and EmptyMessage carries the text to show instead of a list.
type SummaryView struct {
	Header       string        `json:"header"`
	Lines        []SummaryLine `json:"lines"`
	TotalItems   int           `json:"total_items"`
	Empty        bool          `json:"empty"`
	EmptyMessage string        `json:"empty_message,omitempty"`
}

// SummaryController renders a frozen summary payload.
type SummaryController struct {
	payload navigation.SummaryPayload
}

func NewSummaryController(p navigation.SummaryPayload) *SummaryController {
	return &SummaryController{payload: p}
}

func (c *SummaryController) View() SummaryView {
	lines := make([]SummaryLine, len(c.payload.SelectedDishes))
	for i, d := range c.payload.SelectedDishes {
		lines[i] = SummaryLine{Dish: d, Quantity: c.payload.Quantity(d.ID)}
	}
	v := SummaryView{
		Header:     SummaryHeader,
		Lines:      lines,
		TotalItems: c.payload.TotalItemCount(),
	}
	if len(lines) == 0 {
		v.Empty = true
		v.EmptyMessage = SummaryEmptyMessage
	}
	return v
}
