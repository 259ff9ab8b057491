package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/thali-menu/api/internal/catalog"
	"github.com/thali-menu/api/internal/dish"
	"github.com/thali-menu/api/internal/enum"
	"github.com/thali-menu/api/internal/navigation"
)

// --- Mocks ---

// recordingHost captures navigation calls instead of keeping a stack.
type recordingHost struct {
	screens  []enum.Screen
	payloads []any
	err      error
}

func (h *recordingHost) NavigateTo(screen enum.Screen, payload any) error {
	if h.err != nil {
		return h.err
	}
	h.screens = append(h.screens, screen)
	h.payloads = append(h.payloads, payload)
	return nil
}

func (h *recordingHost) GoBack() bool { return false }

type failingProvider struct{ err error }

func (p failingProvider) Dishes(context.Context) ([]dish.Dish, error) { return nil, p.err }

// countingProvider counts loads so tests can check the catalog is fetched once.
type countingProvider struct {
	inner catalog.Provider
	loads int
}

func (p *countingProvider) Dishes(ctx context.Context) ([]dish.Dish, error) {
	p.loads++
	return p.inner.Dishes(ctx)
}

// --- Helpers ---

func twoDishes() catalog.Static {
	return catalog.Static{
		{ID: 1, Name: "Spring Rolls", DietType: enum.DietVeg, MealCategory: enum.CategoryStarter, Ingredients: []string{"Cabbage"}},
		{ID: 2, Name: "Butter Chicken", DietType: enum.DietNonVeg, MealCategory: enum.CategoryMainCourse},
	}
}

func mountedMenu(t *testing.T, host navigation.Host) *MenuController {
	t.Helper()
	m := NewMenuController(host)
	if err := m.Mount(context.Background(), twoDishes()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return m
}

// --- Menu tests ---

func TestMenu_MountOnce(t *testing.T) {
	p := &countingProvider{inner: twoDishes()}
	m := NewMenuController(&recordingHost{})
	for i := 0; i < 3; i++ {
		if err := m.Mount(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}
	if p.loads != 1 {
		t.Errorf("catalog loaded %d times, want 1", p.loads)
	}
}

func TestMenu_MountError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMenuController(&recordingHost{})
	err := m.Mount(context.Background(), failingProvider{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped boom", err)
	}
	if m.Mounted() {
		t.Error("controller mounted after failed load")
	}
}

func TestMenu_NotMounted(t *testing.T) {
	m := NewMenuController(&recordingHost{})
	if _, err := m.Increment(1); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Increment: got %v", err)
	}
	if _, err := m.Continue(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Continue: got %v", err)
	}
}

func TestMenu_FilterAndView(t *testing.T) {
	m := mountedMenu(t, &recordingHost{})

	m.SetDietFilter(enum.DietFilterVeg)
	v := m.View()
	if len(v.Dishes) != 1 || v.Dishes[0].Dish.ID != 1 {
		t.Fatalf("veg filter: got %+v", v.Dishes)
	}

	m.SetDietFilter(enum.DietFilterAll)
	m.SetSearchText("CHICK")
	if got := m.FilteredDishes(); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("search: got %+v", got)
	}

	m.SetSearchText("")
	m.SetCategoryFilter(enum.CategoryStarter)
	if got := m.FilteredDishes(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("category: got %+v", got)
	}

	m.ResetFilters()
	if got := m.FilteredDishes(); len(got) != 2 {
		t.Fatalf("reset: got %d dishes", len(got))
	}
	if v := m.View(); v.CatalogSize != 2 || v.Criteria.Diet != enum.DietFilterAll {
		t.Errorf("view after reset: %+v", v)
	}
}

func TestMenu_CartQuantitiesInView(t *testing.T) {
	m := mountedMenu(t, &recordingHost{})

	for i := 0; i < 2; i++ {
		if _, err := m.Increment(2); err != nil {
			t.Fatal(err)
		}
	}
	if on, err := m.ToggleSelect(1); err != nil || !on {
		t.Fatalf("toggle: %v %v", on, err)
	}

	v := m.View()
	if v.TotalItems != 3 || v.SelectedCount != 2 {
		t.Errorf("totals: got %d items / %d selected", v.TotalItems, v.SelectedCount)
	}
	if v.Dishes[0].Quantity != 1 || v.Dishes[1].Quantity != 2 {
		t.Errorf("card quantities: %+v", v.Dishes)
	}

	// Filtering hides a dish but keeps it in the cart.
	m.SetDietFilter(enum.DietFilterVeg)
	if m.View().TotalItems != 3 {
		t.Error("filter changed cart totals")
	}
}

func TestMenu_UnknownDish(t *testing.T) {
	m := mountedMenu(t, &recordingHost{})
	if _, err := m.Increment(99); !errors.Is(err, ErrDishNotFound) {
		t.Errorf("Increment: got %v", err)
	}
	if _, err := m.ViewIngredients(99); !errors.Is(err, ErrDishNotFound) {
		t.Errorf("ViewIngredients: got %v", err)
	}
}

func TestMenu_DecrementAbsentIsNoop(t *testing.T) {
	m := mountedMenu(t, &recordingHost{})
	m.Increment(2)
	for _, id := range []int64{1, 99} {
		q, err := m.Decrement(id)
		if err != nil || q != 0 {
			t.Errorf("Decrement(%d): got (%d, %v), want (0, nil)", id, q, err)
		}
	}
	if m.TotalItemCount() != 1 {
		t.Errorf("cart changed: total %d", m.TotalItemCount())
	}
}

func TestMenu_Continue(t *testing.T) {
	host := &recordingHost{}
	m := mountedMenu(t, host)
	m.Increment(1)
	m.Increment(1)
	m.Increment(2)

	p, err := m.Continue()
	if err != nil {
		t.Fatal(err)
	}
	if len(host.screens) != 1 || host.screens[0] != enum.ScreenSummary {
		t.Fatalf("navigations: %v", host.screens)
	}
	if p.Quantities[1] != 2 || p.Quantities[2] != 1 {
		t.Errorf("payload quantities: %v", p.Quantities)
	}

	// Editing the cart after navigating leaves the payload alone.
	m.ClearCart()
	sent := host.payloads[0].(navigation.SummaryPayload)
	if len(sent.SelectedDishes) != 2 || sent.Quantities[1] != 2 {
		t.Errorf("payload changed after cart edit: %+v", sent)
	}
}

func TestMenu_ContinueNavigationError(t *testing.T) {
	host := &recordingHost{err: navigation.ErrInvalidTransition}
	m := mountedMenu(t, host)
	if _, err := m.Continue(); !errors.Is(err, navigation.ErrInvalidTransition) {
		t.Errorf("got %v", err)
	}
}

func TestMenu_ViewIngredients(t *testing.T) {
	host := &recordingHost{}
	m := mountedMenu(t, host)
	p, err := m.ViewIngredients(1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Dish.Name != "Spring Rolls" || host.screens[0] != enum.ScreenIngredients {
		t.Errorf("got %+v via %v", p, host.screens)
	}
}

func TestMenu_Unmount(t *testing.T) {
	m := mountedMenu(t, &recordingHost{})
	m.Increment(1)
	m.SetSearchText("rolls")
	m.Unmount()
	if m.Mounted() || m.TotalItemCount() != 0 || m.Criteria().SearchText != "" {
		t.Errorf("state survived unmount: mounted=%v total=%d criteria=%+v", m.Mounted(), m.TotalItemCount(), m.Criteria())
	}
}

// --- Ingredients tests ---

func TestIngredients_View(t *testing.T) {
	d := dish.Dish{ID: 3, Name: "Paneer Tikka", Ingredients: []string{"Paneer", "Yogurt"}}
	v := NewIngredientsController(navigation.BuildIngredientPayload(d)).View()
	if v.Title != "Paneer Tikka Ingredients" {
		t.Errorf("title: %q", v.Title)
	}
	if len(v.Ingredients) != 2 || v.Ingredients[0] != "Paneer" || v.Placeholder {
		t.Errorf("ingredients: %+v", v)
	}
}

func TestIngredients_Placeholder(t *testing.T) {
	v := NewIngredientsController(navigation.IngredientPayload{Dish: dish.Dish{Name: "Butter Naan"}}).View()
	if !v.Placeholder || len(v.Ingredients) != 1 || v.Ingredients[0] != "Ingredients not available" {
		t.Errorf("got %+v", v)
	}
}

// --- Summary tests ---

func TestSummary_View(t *testing.T) {
	p := navigation.SummaryPayload{
		SelectedDishes: []dish.Dish{{ID: 1, Name: "Spring Rolls"}, {ID: 2, Name: "Butter Chicken"}},
		Quantities:     map[int64]int{1: 2, 2: 1},
	}
	v := NewSummaryController(p).View()
	if v.Empty || v.EmptyMessage != "" {
		t.Errorf("non-empty summary flagged empty: %+v", v)
	}
	if v.Header != SummaryHeader || len(v.Lines) != 2 || v.TotalItems != 3 {
		t.Fatalf("got %+v", v)
	}
	if v.Lines[0].Dish.ID != 1 || v.Lines[0].Quantity != 2 || v.Lines[1].Quantity != 1 {
		t.Errorf("lines: %+v", v.Lines)
	}
}

func TestSummary_EmptyMessage(t *testing.T) {
	m := mountedMenu(t, &recordingHost{})
	p, err := m.Continue()
	if err != nil {
		t.Fatal(err)
	}
	v := NewSummaryController(p).View()
	if !v.Empty || v.EmptyMessage != "No items selected." {
		t.Errorf("empty cart: got %+v", v)
	}
	if v.Lines == nil || len(v.Lines) != 0 {
		t.Errorf("lines: got %v, want empty", v.Lines)
	}
}

// --- Render tests ---

func TestRender(t *testing.T) {
	stack := navigation.NewStack()
	m := mountedMenu(t, stack)

	r, err := Render(stack.Current(), m)
	if err != nil || r.Screen != enum.ScreenMenu || r.Menu == nil {
		t.Fatalf("menu: %+v %v", r, err)
	}

	if _, err := m.ViewIngredients(1); err != nil {
		t.Fatal(err)
	}
	r, err = Render(stack.Current(), m)
	if err != nil || r.Ingredients == nil || r.Ingredients.DishID != 1 {
		t.Fatalf("ingredients: %+v %v", r, err)
	}

	stack.GoBack()
	if _, err := m.Continue(); err != nil {
		t.Fatal(err)
	}
	r, err = Render(stack.Current(), m)
	if err != nil || r.Summary == nil || !r.Summary.Empty {
		t.Fatalf("summary: %+v %v", r, err)
	}

	if _, err := Render(navigation.Entry{Screen: enum.ScreenSummary, Payload: "x"}, m); err == nil {
		t.Error("expected error for mismatched payload")
	}
}
