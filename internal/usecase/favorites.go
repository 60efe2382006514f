package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"esglens/internal/ports"
)

// Favorites applies favorite toggles with the store write first: local or
// UI state may only change after the write succeeds, so a failed call
// leaves the previous state observable.
type Favorites struct {
	store  ports.FavoriteStore
	logger *slog.Logger
}

// NewFavorites wires the favorite store; logger is optional.
func NewFavorites(store ports.FavoriteStore, logger *slog.Logger) *Favorites {
	return &Favorites{store: store, logger: logger}
}

// List returns the set of brand ids the user has favorited.
func (f *Favorites) List(ctx context.Context, userID string) (map[string]bool, error) {
	favs, err := f.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// Toggle flips the favorite link for (userID, brandID) and returns the
// resulting state: true when the brand is now favorited.
func (f *Favorites) Toggle(ctx context.Context, userID, brandID string) (bool, error) {
	favs, err := f.store.ListFavorites(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load favorites: %w", err)
	}

	if favs[brandID] {
		if err := f.store.RemoveFavorite(ctx, userID, brandID); err != nil {
			f.warn("remove favorite failed", "user", userID, "brand", brandID, "error", err)
			return true, fmt.Errorf("remove favorite: %w", err)
		}
		return false, nil
	}

	if err := f.store.AddFavorite(ctx, userID, brandID); err != nil {
		f.warn("add favorite failed", "user", userID, "brand", brandID, "error", err)
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}

func (f *Favorites) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
