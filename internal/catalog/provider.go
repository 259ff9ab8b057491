// Package catalog supplies the dish list a menu session is mounted with.
//
// Providers normalize records exactly once, on load; everything downstream
// works with canonical dish.Dish values.
package catalog

import (
	"context"
	"log/slog"

	"github.com/thali-menu/api/internal/dish"
)

// Provider loads the full catalog. The returned slice is owned by the caller.
type Provider interface {
	Dishes(ctx context.Context) ([]dish.Dish, error)
}

// Static serves a fixed in-memory catalog.
type Static []dish.Dish

// Dishes returns a deep copy of the static catalog.
func (s Static) Dishes(_ context.Context) ([]dish.Dish, error) {
	out := make([]dish.Dish, len(s))
	for i, d := range s {
		out[i] = d.Clone()
	}
	return out, nil
}

// warnDuplicates logs ids that appear more than once. Duplicates are not
// rejected; cart entries for them merge.
func warnDuplicates(source string, dishes []dish.Dish) {
	if dups := dish.DuplicateIDs(dishes); len(dups) > 0 {
		slog.Warn("Catalog contains duplicate dish ids", "source", source, "ids", dups)
	}
}
