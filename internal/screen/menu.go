// Package screen holds the controllers behind the menu, ingredients and
// summary screens. Controllers return plain view models; rendering is the
// client's concern.
package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/thali-menu/api/internal/cart"
	"github.com/thali-menu/api/internal/catalog"
	"github.com/thali-menu/api/internal/dish"
	"github.com/thali-menu/api/internal/enum"
	"github.com/thali-menu/api/internal/filter"
	"github.com/thali-menu/api/internal/navigation"
)

var (
	ErrNotMounted   = errors.New("menu is not mounted")
	ErrDishNotFound = errors.New("dish not found in catalog")
)

// DishCard is one row of the menu list.
type DishCard struct {
	Dish     dish.Dish `json:"dish"`
	Quantity int       `json:"quantity"`
}

// MenuView is everything the menu screen renders in one pass.
type MenuView struct {
	Criteria      filter.Criteria `json:"criteria"`
	Dishes        []DishCard      `json:"dishes"`
	TotalItems    int             `json:"total_items"`
	SelectedCount int             `json:"selected_count"`
	CatalogSize   int             `json:"catalog_size"`
}

// MenuController owns the catalog snapshot, filter criteria and cart of one
// mounted menu. It is not safe for concurrent use.
type MenuController struct {
	nav      navigation.Host
	catalog  []dish.Dish
	mounted  bool
	criteria filter.Criteria
	cart     *cart.Cart
}

// NewMenuController returns an unmounted controller that navigates through nav.
func NewMenuController(nav navigation.Host) *MenuController {
	return &MenuController{
		nav:      nav,
		criteria: filter.Criteria{Diet: enum.DietFilterAll},
		cart:     cart.New(),
	}
}

// Mount loads the catalog once. Mounting an already mounted menu is a no-op.
func (m *MenuController) Mount(ctx context.Context, p catalog.Provider) error {
	if m.mounted {
		return nil
	}
	dishes, err := p.Dishes(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	m.catalog = dishes
	m.mounted = true
	return nil
}

// Unmount discards the catalog, cart and criteria.
func (m *MenuController) Unmount() {
	m.catalog = nil
	m.mounted = false
	m.cart.Clear()
	m.criteria = filter.Criteria{Diet: enum.DietFilterAll}
}

func (m *MenuController) Mounted() bool { return m.mounted }

// Catalog returns the mounted catalog. Callers must not modify it.
func (m *MenuController) Catalog() []dish.Dish { return m.catalog }

func (m *MenuController) Criteria() filter.Criteria { return m.criteria }

func (m *MenuController) SetSearchText(s string) {
	m.criteria.SearchText = s
}

func (m *MenuController) SetDietFilter(f enum.DietFilter) {
	m.criteria.Diet = f
}

// SetCategoryFilter sets the meal category; CategoryUnknown clears it.
func (m *MenuController) SetCategoryFilter(c enum.MealCategory) {
	m.criteria.Category = c
}

// SetCriteria replaces all three filters at once.
func (m *MenuController) SetCriteria(c filter.Criteria) {
	if c.Diet == "" {
		c.Diet = enum.DietFilterAll
	}
	m.criteria = c
}

func (m *MenuController) ResetFilters() {
	m.criteria = filter.Criteria{Diet: enum.DietFilterAll}
}

// FilteredDishes applies the current criteria to the catalog.
func (m *MenuController) FilteredDishes() []dish.Dish {
	return filter.Apply(m.catalog, m.criteria)
}

// Increment adds one of a catalog dish and returns its new quantity.
func (m *MenuController) Increment(dishID int64) (int, error) {
	if err := m.checkDish(dishID); err != nil {
		return 0, err
	}
	return m.cart.Increment(dishID), nil
}

// Decrement removes one of a dish. A dish that is not in the cart, whether
// or not the catalog knows it, is left alone.
func (m *MenuController) Decrement(dishID int64) (int, error) {
	if !m.mounted {
		return 0, ErrNotMounted
	}
	return m.cart.Decrement(dishID), nil
}

// ToggleSelect flips binary selection of a catalog dish.
func (m *MenuController) ToggleSelect(dishID int64) (bool, error) {
	if err := m.checkDish(dishID); err != nil {
		return false, err
	}
	return m.cart.ToggleSelect(dishID), nil
}

func (m *MenuController) ClearCart() {
	m.cart.Clear()
}

func (m *MenuController) Quantity(dishID int64) int {
	return m.cart.Quantity(dishID)
}

func (m *MenuController) TotalItemCount() int {
	return m.cart.TotalItemCount()
}

// View derives the menu screen's view model from the current state.
func (m *MenuController) View() MenuView {
	filtered := m.FilteredDishes()
	cards := make([]DishCard, len(filtered))
	for i, d := range filtered {
		cards[i] = DishCard{Dish: d, Quantity: m.cart.Quantity(d.ID)}
	}
	return MenuView{
		Criteria:      m.criteria,
		Dishes:        cards,
		TotalItems:    m.cart.TotalItemCount(),
		SelectedCount: m.cart.SelectedCount(),
		CatalogSize:   len(m.catalog),
	}
}

// Continue freezes the cart into a summary payload and navigates to the
// summary screen. An empty cart is allowed.
func (m *MenuController) Continue() (navigation.SummaryPayload, error) {
	if !m.mounted {
		return navigation.SummaryPayload{}, ErrNotMounted
	}
	payload := navigation.BuildSummaryPayload(m.catalog, m.cart)
	if err := m.nav.NavigateTo(enum.ScreenSummary, payload); err != nil {
		return navigation.SummaryPayload{}, err
	}
	return payload, nil
}

// ViewIngredients navigates to the ingredients screen for one dish.
func (m *MenuController) ViewIngredients(dishID int64) (navigation.IngredientPayload, error) {
	if err := m.checkDish(dishID); err != nil {
		return navigation.IngredientPayload{}, err
	}
	d, _ := dish.Find(m.catalog, dishID)
	payload := navigation.BuildIngredientPayload(d)
	if err := m.nav.NavigateTo(enum.ScreenIngredients, payload); err != nil {
		return navigation.IngredientPayload{}, err
	}
	return payload, nil
}

func (m *MenuController) checkDish(dishID int64) error {
	if !m.mounted {
		return ErrNotMounted
	}
	if _, ok := dish.Find(m.catalog, dishID); !ok {
		return fmt.Errorf("%w: %d", ErrDishNotFound, dishID)
	}
	return nil
}
