package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"esglens/internal/domain"
	"esglens/internal/ports"
)

const (
	// FreshnessWindow is the interval within which cached news is current
	// enough to skip re-fetching.
	FreshnessWindow = 12 * time.Hour

	// FreshRowThreshold is the minimum number of rows inside the window for
	// a brand's cache to count as fresh.
	FreshRowThreshold = 6

	// DefaultFetchMax bounds how many articles one search requests.
	DefaultFetchMax = 6
)

// Keyword sets for categorization, scanned in priority order against
// title + " " + description. Environmental wins ties and is the fallback.
var (
	environmentalKeywords = []string{"environment", "climate", "carbon", "green", "renewable", "sustainable"}
	socialKeywords        = []string{"social", "diversity", "ethics", "responsibility", "community", "human rights", "labor rights", "inclusion"}
	governanceKeywords    = []string{"governance", "board", "audit", "compliance", "transparency", "shareholder"}
)

// Categorize assigns exactly one category to a fetched article. Total and
// deterministic: every input yields one of the three categories.
func Categorize(a domain.FetchedArticle) domain.Category {
	text := strings.ToLower(a.Title + " " + a.Description)
	for _, kw := range environmentalKeywords {
		if strings.Contains(text, kw) {
			return domain.CategoryEnvironmental
		}
	}
	for _, kw := range socialKeywords {
		if strings.Contains(text, kw) {
			return domain.CategorySocial
		}
	}
	for _, kw := range governanceKeywords {
		if strings.Contains(text, kw) {
			return domain.CategoryGovernance
		}
	}
	return domain.CategoryEnvironmental
}

// Reconcile filters fetched articles down to the rows that should be
// persisted for brandID: articles whose URL already exists are dropped, the
// rest are categorized and assigned fresh ids. An absent URL participates
// as the empty string, so all URL-less articles share one dedup key and at
// most one survives.
func Reconcile(existingURLs map[string]bool, fetched []domain.FetchedArticle, brandID string) []domain.NewsArticle {
	seen := make(map[string]bool, len(existingURLs))
	for url := range existingURLs {
		seen[url] = true
	}

	var rows []domain.NewsArticle
	for _, a := range fetched {
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true

		rows = append(rows, domain.NewsArticle{
			ID:       uuid.NewString(),
			BrandID:  brandID,
			Title:    a.Title,
			Summary:  a.Description,
			Category: Categorize(a),
			Date:     a.PublishedAt,
			Source:   a.SourceName,
			URL:      a.URL,
		})
	}

	return rows
}

// NewsDeps wires the driven adapters into the news pipeline.
type NewsDeps struct {
	Brands ports.BrandStore
	Store  ports.NewsStore
	Source ports.NewsSource
	Seen   ports.SeenFilter
	Logger *slog.Logger
	Now    func() time.Time
}

// NewsService orchestrates the cache-then-fetch news workflow for a brand.
type NewsService struct {
	brands ports.BrandStore
	store  ports.NewsStore
	source ports.NewsSource
	seen   ports.SeenFilter
	logger *slog.Logger
	now    func() time.Time
}

// NewNewsService constructs the pipeline; Seen and Logger are optional.
func NewNewsService(deps NewsDeps) *NewsService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &NewsService{
		brands: deps.Brands,
		store:  deps.Store,
		source: deps.Source,
		seen:   deps.Seen,
		logger: deps.Logger,
		now:    now,
	}
}

// BrandNews returns the current news rows for a brand. If at least
// FreshRowThreshold rows exist inside the freshness window the cached rows
// are returned verbatim and no external call happens. Otherwise the source
// is queried, new rows are reconciled and persisted, and the recent rows
// are re-read. Source errors (quota included) propagate unwrapped in
// meaning: no retry, no silent cache fallback.
func (s *NewsService) BrandNews(ctx context.Context, brandID string) ([]domain.NewsArticle, error) {
	since := s.now().Add(-FreshnessWindow)

	cached, err := s.store.RecentNews(ctx, brandID, since)
	if err != nil {
		return nil, fmt.Errorf("load cached news: %w", err)
	}
	if len(cached) >= FreshRowThreshold {
		s.debug("news cache fresh", "brand", brandID, "rows", len(cached))
		return cached, nil
	}

	brand, err := s.brands.GetBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("load brand %s: %w", brandID, err)
	}

	existing, err := s.store.NewsURLs(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("load existing urls: %w", err)
	}

	fetched, err := s.source.Search(ctx, brand.CompanyName, DefaultFetchMax)
	if err != nil {
		return nil, fmt.Errorf("search news for %s: %w", brand.CompanyName, err)
	}

	fetched = s.prefilter(ctx, brandID, fetched)

	rows := Reconcile(existing, fetched, brandID)
	if len(rows) > 0 {
		if err := s.store.InsertNews(ctx, rows); err != nil {
			return nil, fmt.Errorf("insert news: %w", err)
		}
		s.markSeen(ctx, brandID, rows)
		s.debug("news inserted", "brand", brandID, "rows", len(rows))
	}

	refreshed, err := s.store.RecentNews(ctx, brandID, since)
	if err != nil {
		return nil, fmt.Errorf("reload news: %w", err)
	}
	return refreshed, nil
}

// prefilter drops articles the seen filter already knows about. The filter
// is advisory: on error or a miss the article falls through to the
// authoritative URL-set check in Reconcile.
func (s *NewsService) prefilter(ctx context.Context, brandID string, fetched []domain.FetchedArticle) []domain.FetchedArticle {
	if s.seen == nil {
		return fetched
	}

	kept := make([]domain.FetchedArticle, 0, len(fetched))
	for _, a := range fetched {
		known, err := s.seen.Seen(ctx, brandID, a.URL)
		if err != nil {
			s.debug("seen filter unavailable", "error", err)
			return fetched
		}
		if !known {
			kept = append(kept, a)
		}
	}
	return kept
}

func (s *NewsService) markSeen(ctx context.Context, brandID string, rows []domain.NewsArticle) {
	if s.seen == nil {
		return
	}
	urls := make([]string, 0, len(rows))
	for _, r := range rows {
		urls = append(urls, r.URL)
	}
	if err := s.seen.MarkSeen(ctx, brandID, urls); err != nil {
		s.debug("seen filter mark failed", "error", err)
	}
}

func (s *NewsService) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
