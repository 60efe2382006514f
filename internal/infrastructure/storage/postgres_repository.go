package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"esglens/internal/domain"
	"esglens/internal/ports"
)

// PostgresRepository serves the hosted tables esg_data, news, favorites and
// profiles. The news table carries a uniqueness constraint on url; inserts
// lean on it instead of client-side locking, since two sessions can race
// the dedup check.
type PostgresRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var (
	_ ports.BrandStore    = (*PostgresRepository)(nil)
	_ ports.NewsStore     = (*PostgresRepository)(nil)
	_ ports.FavoriteStore = (*PostgresRepository)(nil)
	_ ports.ProfileStore  = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListBrands returns every esg_data row ordered by overall score descending.
func (r *PostgresRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	query, args, err := r.sb.
		Select(brandColumns...).
		From("esg_data").
		OrderBy("overall_score DESC NULLS LAST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build brands query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	var brands []domain.Brand
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("brands iteration: %w", err)
	}

	return brands, nil
}

// GetBrand loads a single esg_data row.
func (r *PostgresRepository) GetBrand(ctx context.Context, id string) (domain.Brand, error) {
	query, args, err := r.sb.
		Select(brandColumns...).
		From("esg_data").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Brand{}, fmt.Errorf("build brand query: %w", err)
	}

	brand, err := scanBrand(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Brand{}, fmt.Errorf("brand %s: %w", id, err)
	}
	return brand, nil
}

// RecentNews returns rows for brandID published at or after since, newest
// first.
func (r *PostgresRepository) RecentNews(ctx context.Context, brandID string, since time.Time) ([]domain.NewsArticle, error) {
	query, args, err := r.sb.
		Select("id", "esg_id", "title", "summary", "category", "date", "source", "url").
		From("news").
		Where(sq.Eq{"esg_id": brandID}).
		Where(sq.GtOrEq{"date": since}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build news query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query news: %w", err)
	}
	defer rows.Close()

	var articles []domain.NewsArticle
	for rows.Next() {
		var (
			a       domain.NewsArticle
			date    sql.NullTime
			source  sql.NullString
			url     sql.NullString
			summary sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.BrandID, &a.Title, &summary, &a.Category, &date, &source, &url); err != nil {
			return nil, fmt.Errorf("scan news row: %w", err)
		}
		a.Summary = summary.String
		a.Date = date.Time
		a.Source = source.String
		a.URL = url.String
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("news iteration: %w", err)
	}

	return articles, nil
}

// NewsURLs returns the set of urls already stored for brandID.
func (r *PostgresRepository) NewsURLs(ctx context.Context, brandID string) (map[string]bool, error) {
	query, args, err := r.sb.
		Select("url").
		From("news").
		Where(sq.Eq{"esg_id": brandID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build urls query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	urls := map[string]bool{}
	for rows.Next() {
		var url sql.NullString
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls[url.String] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("urls iteration: %w", err)
	}

	return urls, nil
}

// InsertNews writes new rows. ON CONFLICT (url) DO NOTHING makes concurrent
// duplicate attempts from another session a no-op instead of an error.
func (r *PostgresRepository) InsertNews(ctx context.Context, articles []domain.NewsArticle) error {
	if len(articles) == 0 {
		return nil
	}

	builder := r.sb.
		Insert("news").
		Columns("id", "esg_id", "title", "summary", "category", "date", "source", "url").
		Suffix("ON CONFLICT (url) DO NOTHING")

	for _, a := range articles {
		builder = builder.Values(a.ID, a.BrandID, a.Title, a.Summary, string(a.Category), a.Date, a.Source, a.URL)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build news insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

// ListFavorites returns the set of brand ids favorited by userID.
func (r *PostgresRepository) ListFavorites(ctx context.Context, userID string) (map[string]bool, error) {
	query, args, err := r.sb.
		Select("esg_id").
		From("favorites").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build favorites query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	favs := map[string]bool{}
	for rows.Next() {
		var brandID string
		if err := rows.Scan(&brandID); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favs[brandID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorites iteration: %w", err)
	}

	return favs, nil
}

// AddFavorite links a user to a brand; a repeat add is a no-op under the
// (user_id, esg_id) uniqueness constraint.
func (r *PostgresRepository) AddFavorite(ctx context.Context, userID, brandID string) error {
	query, args, err := r.sb.
		Insert("favorites").
		Columns("id", "user_id", "esg_id").
		Values(uuid.NewString(), userID, brandID).
		Suffix("ON CONFLICT (user_id, esg_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build favorite insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite destroys the (user, brand) link if present.
func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID, brandID string) error {
	query, args, err := r.sb.
		Delete("favorites").
		Where(sq.Eq{"user_id": userID, "esg_id": brandID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build favorite delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// FavoritedBrandIDs returns every brand id favorited by at least one user,
// for the background refresh sweep.
func (r *PostgresRepository) FavoritedBrandIDs(ctx context.Context) ([]string, error) {
	query, args, err := r.sb.
		Select("DISTINCT esg_id").
		From("favorites").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build favorited brands query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorited brands: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorited brand: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorited brands iteration: %w", err)
	}

	return ids, nil
}

// GetProfile reads the hosted auth service's profile row for id.
func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	query, args, err := r.sb.
		Select("id", "name", "email").
		From("profiles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("build profile query: %w", err)
	}

	var p domain.Profile
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Email); err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, err)
	}
	return p, nil
}

var brandColumns = []string{
	"id", "company_name", "brand_name", "ticker", "industry", "country",
	"environmental_score", "social_score", "governance_score", "overall_score",
	"last_updated", "description", "website", "founded", "products",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrand(row rowScanner) (domain.Brand, error) {
	var (
		b           domain.Brand
		brandName   sql.NullString
		ticker      sql.NullString
		industry    sql.NullString
		country     sql.NullString
		lastUpdated sql.NullString
		description sql.NullString
		website     sql.NullString
		founded     sql.NullString
		products    pq.StringArray
	)

	err := row.Scan(
		&b.ID, &b.CompanyName, &brandName, &ticker, &industry, &country,
		&b.EnvironmentalScore, &b.SocialScore, &b.GovernanceScore, &b.OverallScore,
		&lastUpdated, &description, &website, &founded, &products,
	)
	if err != nil {
		return domain.Brand{}, fmt.Errorf("scan brand: %w", err)
	}

	b.BrandName = brandName.String
	b.Ticker = ticker.String
	b.Industry = industry.String
	b.Country = country.String
	b.LastUpdated = lastUpdated.String
	b.Description = description.String
	b.Website = website.String
	b.Founded = founded.String
	b.Products = products

	return b, nil
}
