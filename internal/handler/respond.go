package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thali-menu/api/internal/enum"
	"github.com/thali-menu/api/internal/navigation"
	"github.com/thali-menu/api/internal/screen"
	"github.com/thali-menu/api/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a core error to its HTTP status. Anything
// unrecognized is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, screen.ErrDishNotFound):
		writeError(w, http.StatusNotFound, "dish not found")
	case errors.Is(err, navigation.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, enum.ErrInvalidDietFilter), errors.Is(err, enum.ErrInvalidCategoryFilter):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseDishID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "dishID"), 10, 64)
}
