package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thali-menu/api/internal/dish"
	"github.com/thali-menu/api/internal/enum"
	"github.com/thali-menu/api/internal/filter"
)

// CatalogSource loads the current dish catalog.
// Satisfied by *service.SessionService and by any catalog.Provider.
type CatalogSource interface {
	Dishes(ctx context.Context) ([]dish.Dish, error)
}

// DishHandler serves stateless catalog queries.
type DishHandler struct {
	source CatalogSource
}

// NewDishHandler creates a new DishHandler.
func NewDishHandler(source CatalogSource) *DishHandler {
	return &DishHandler{source: source}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
func (h *DishHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dishes", h.List)
	r.Get("/categories", h.Categories)
}

type categoryCount struct {
	Category enum.MealCategory `json:"category"`
	Count    int               `json:"count"`
}

type categoriesResponse struct {
	Categories    []categoryCount `json:"categories"`
	Uncategorized int             `json:"uncategorized"`
	Total         int             `json:"total"`
}

// List filters the catalog by the search, diet and category query params.
func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	diet, err := enum.ParseDietFilter(q.Get("diet"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := enum.ParseCategoryFilter(q.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dishes, err := h.source.Dishes(r.Context())
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, filter.Apply(dishes, filter.Criteria{
		SearchText: q.Get("search"),
		Diet:       diet,
		Category:   category,
	}))
}

// Categories counts catalog dishes per meal category.
func (h *DishHandler) Categories(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.source.Dishes(r.Context())
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	counts := make(map[enum.MealCategory]int, len(enum.MealCategories))
	for _, d := range dishes {
		counts[d.MealCategory]++
	}

	resp := categoriesResponse{
		Categories:    make([]categoryCount, len(enum.MealCategories)),
		Uncategorized: counts[enum.CategoryUnknown],
		Total:         len(dishes),
	}
	for i, c := range enum.MealCategories {
		resp.Categories[i] = categoryCount{Category: c, Count: counts[c]}
	}

	writeJSON(w, http.StatusOK, resp)
}
