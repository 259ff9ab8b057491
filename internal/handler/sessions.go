package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thali-menu/api/internal/enum"
	"github.com/thali-menu/api/internal/filter"
	"github.com/thali-menu/api/internal/screen"
	"github.com/thali-menu/api/internal/service"
)

// SessionManager defines the session operations needed by session handlers.
// Satisfied by *service.SessionService; narrow interface for testability.
type SessionManager interface {
	Open(ctx context.Context) (*service.OpenResult, error)
	Refresh(id uuid.UUID) (*service.TokenResult, error)
	Close(id uuid.UUID) error
	Menu(id uuid.UUID) (screen.MenuView, error)
	SetFilters(id uuid.UUID, c filter.Criteria) (screen.MenuView, error)
	ResetFilters(id uuid.UUID) (screen.MenuView, error)
	Increment(id uuid.UUID, dishID int64) (service.CartUpdate, error)
	Decrement(id uuid.UUID, dishID int64) (service.CartUpdate, error)
	Toggle(id uuid.UUID, dishID int64) (service.CartUpdate, error)
	ClearCart(id uuid.UUID) (screen.MenuView, error)
	ViewIngredients(id uuid.UUID, dishID int64) (screen.Rendered, error)
	Continue(id uuid.UUID) (screen.Rendered, error)
	Screen(id uuid.UUID) (screen.Rendered, error)
	Back(id uuid.UUID) (screen.Rendered, bool, error)
}

// SessionHandler handles menu session endpoints.
type SessionHandler struct {
	sessions SessionManager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// RegisterRoutes registers the session-scoped endpoints. Expected to be
// mounted under /sessions/{sid} behind token authentication.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Delete("/", h.Close)
	r.Post("/token", h.Refresh)
	r.Get("/menu", h.Menu)
	r.Put("/filters", h.SetFilters)
	r.Delete("/filters", h.ResetFilters)
	r.Post("/cart/{dishID}/increment", h.cartOp(SessionManager.Increment))
	r.Post("/cart/{dishID}/decrement", h.cartOp(SessionManager.Decrement))
	r.Post("/cart/{dishID}/toggle", h.cartOp(SessionManager.Toggle))
	r.Delete("/cart", h.ClearCart)
	r.Post("/dishes/{dishID}/ingredients", h.ViewIngredients)
	r.Post("/continue", h.Continue)
	r.Get("/screen", h.Screen)
	r.Post("/back", h.Back)
}

// --- Request / Response types ---

type filtersRequest struct {
	SearchText string `json:"search_text"`
	Diet       string `json:"diet"`
	Category   string `json:"category"`
}

type backResponse struct {
	Popped bool            `json:"popped"`
	Screen screen.Rendered `json:"screen"`
}

// --- Handlers ---

// Open starts a new menu session and returns its id and bearer token.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	res, err := h.sessions.Open(r.Context())
	if err != nil {
		writeServiceError(w, "open session", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Refresh exchanges a still-valid token for one with a later expiry.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	res, err := h.sessions.Refresh(id)
	if err != nil {
		writeServiceError(w, "refresh token", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Close unmounts the session.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Close(id); err != nil {
		writeServiceError(w, "close session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// Menu returns the session's menu view.
func (h *SessionHandler) Menu(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	v, err := h.sessions.Menu(id)
	if err != nil {
		writeServiceError(w, "menu", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SetFilters replaces search text, diet and category filters.
func (h *SessionHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req filtersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	diet, err := enum.ParseDietFilter(req.Diet)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := enum.ParseCategoryFilter(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.sessions.SetFilters(id, filter.Criteria{
		SearchText: req.SearchText,
		Diet:       diet,
		Category:   category,
	})
	if err != nil {
		writeServiceError(w, "set filters", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ResetFilters clears every filter.
func (h *SessionHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	v, err := h.sessions.ResetFilters(id)
	if err != nil {
		writeServiceError(w, "reset filters", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *SessionHandler) cartOp(op func(SessionManager, uuid.UUID, int64) (service.CartUpdate, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		dishID, err := parseDishID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dish ID")
			return
		}
		upd, err := op(h.sessions, id, dishID)
		if err != nil {
			writeServiceError(w, "cart", err)
			return
		}
		writeJSON(w, http.StatusOK, upd)
	}
}

// ClearCart empties the cart.
func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	v, err := h.sessions.ClearCart(id)
	if err != nil {
		writeServiceError(w, "clear cart", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ViewIngredients opens the ingredients screen for a dish.
func (h *SessionHandler) ViewIngredients(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	dishID, err := parseDishID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dish ID")
		return
	}
	rendered, err := h.sessions.ViewIngredients(id, dishID)
	if err != nil {
		writeServiceError(w, "view ingredients", err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

// Continue freezes the cart into the summary screen.
func (h *SessionHandler) Continue(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	rendered, err := h.sessions.Continue(id)
	if err != nil {
		writeServiceError(w, "continue", err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

// Screen renders the screen currently on top of the stack.
func (h *SessionHandler) Screen(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	rendered, err := h.sessions.Screen(id)
	if err != nil {
		writeServiceError(w, "screen", err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

// Back pops one screen. Backing out of the menu is reported with popped=false.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	rendered, popped, err := h.sessions.Back(id)
	if err != nil {
		writeServiceError(w, "back", err)
		return
	}
	writeJSON(w, http.StatusOK, backResponse{Popped: popped, Screen: rendered})
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
