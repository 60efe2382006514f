package ports

import (
	"context"
	"time"

	"esglens/internal/domain"
)

// BrandStore reads brand records from the hosted esg_data table.
type BrandStore interface {
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	GetBrand(ctx context.Context, id string) (domain.Brand, error)
}

// NewsStore persists and queries per-brand news rows. RecentNews returns
// rows published at or after since, ordered by date descending. InsertNews
// must tolerate concurrent duplicate attempts via the store's uniqueness
// constraint on url.
type NewsStore interface {
	RecentNews(ctx context.Context, brandID string, since time.Time) ([]domain.NewsArticle, error)
	NewsURLs(ctx context.Context, brandID string) (map[string]bool, error)
	InsertNews(ctx context.Context, rows []domain.NewsArticle) error
}

// FavoriteStore manages (user, brand) favorite links.
type FavoriteStore interface {
	ListFavorites(ctx context.Context, userID string) (map[string]bool, error)
	AddFavorite(ctx context.Context, userID, brandID string) error
	RemoveFavorite(ctx context.Context, userID, brandID string) error
	FavoritedBrandIDs(ctx context.Context) ([]string, error)
}

// ProfileStore resolves authenticated user ids to profile rows.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
}

// NewsSource queries an external news-search provider for a brand.
// Implementations surface quota exhaustion and structured error payloads
// as errors; callers must not retry or silently fall back to cache.
type NewsSource interface {
	Search(ctx context.Context, query string, max int) ([]domain.FetchedArticle, error)
}

// SeenFilter is an optional fast-path check for already-ingested URLs.
// A negative answer is never authoritative; the store remains the source
// of truth for deduplication.
type SeenFilter interface {
	Seen(ctx context.Context, brandID, url string) (bool, error)
	MarkSeen(ctx context.Context, brandID string, urls []string) error
}

// Scheduler controls when background refresh jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
