package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"esglens/internal/domain"
	"esglens/internal/ports"
)

// Refresher keeps news warm for every brand somebody has favorited, so
// detail pages usually hit a fresh cache.
type Refresher struct {
	favorites ports.FavoriteStore
	news      *NewsService
	logger    *slog.Logger
}

// NewRefresher wires the favorite store with the news pipeline.
func NewRefresher(favorites ports.FavoriteStore, news *NewsService, logger *slog.Logger) *Refresher {
	return &Refresher{favorites: favorites, news: news, logger: logger}
}

// Sweep runs the news pipeline once per distinct favorited brand. A failing
// brand is logged and skipped; quota exhaustion aborts the sweep since
// every remaining fetch would fail the same way.
func (r *Refresher) Sweep(ctx context.Context) error {
	if r.favorites == nil || r.news == nil {
		return nil
	}

	ids, err := r.favorites.FavoritedBrandIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := r.news.BrandNews(ctx, id); err != nil {
			if errors.Is(err, domain.ErrQuotaExceeded) {
				r.warn("refresh sweep stopped: quota exhausted", "brand", id)
				return err
			}
			r.warn("refresh brand failed", "brand", id, "error", err)
		}
	}
	return nil
}

// RunScheduled registers the sweep with the provided scheduler driver.
func (r *Refresher) RunScheduled(ctx context.Context, driver ports.Scheduler) error {
	if driver == nil {
		return nil
	}
	return driver.Start(ctx, func(time.Time) {
		if err := r.Sweep(ctx); err != nil {
			r.warn("scheduled sweep failed", "error", err)
		}
	})
}

func (r *Refresher) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
