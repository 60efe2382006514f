package usecase

import (
	"sort"
	"strings"

	"esglens/internal/domain"
)

// Sort keys accepted by CatalogQuery. Anything else falls back to the
// overall score.
const (
	SortOverall       = "overall_score"
	SortEnvironmental = "environmental_score"
	SortSocial        = "social_score"
	SortGovernance    = "governance_score"
	SortBrandName     = "brand_name"
)

// CatalogQuery is one brand-list request: free-text search, industry
// filter ("" or "all" means every industry), sort key, and an optional
// favorites-only restriction.
type CatalogQuery struct {
	Search        string
	Industry      string
	SortBy        string
	FavoritesOnly bool
	Favorites     map[string]bool
}

// FilterBrands applies the query in memory and returns a new slice. Search
// matches case-insensitive substrings of brand name, company name, or any
// product. Score sorts are descending with absent scores counting as 0;
// the brand-name sort is ascending.
func FilterBrands(brands []domain.Brand, q CatalogQuery) []domain.Brand {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	filtered := make([]domain.Brand, 0, len(brands))
	for _, b := range brands {
		if !matchesSearch(b, search) {
			continue
		}
		if q.Industry != "" && q.Industry != "all" && b.Industry != q.Industry {
			continue
		}
		if q.FavoritesOnly && !q.Favorites[b.ID] {
			continue
		}
		filtered = append(filtered, b)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch q.SortBy {
		case SortEnvironmental:
			return domain.Score(a.EnvironmentalScore) > domain.Score(b.EnvironmentalScore)
		case SortSocial:
			return domain.Score(a.SocialScore) > domain.Score(b.SocialScore)
		case SortGovernance:
			return domain.Score(a.GovernanceScore) > domain.Score(b.GovernanceScore)
		case SortBrandName:
			return a.BrandName < b.BrandName
		default:
			return domain.Score(a.OverallScore) > domain.Score(b.OverallScore)
		}
	})

	return filtered
}

func matchesSearch(b domain.Brand, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(b.BrandName), search) {
		return true
	}
	if strings.Contains(strings.ToLower(b.CompanyName), search) {
		return true
	}
	for _, p := range b.Products {
		if strings.Contains(strings.ToLower(p), search) {
			return true
		}
	}
	return false
}

// Industries returns the distinct non-empty industries present in brands,
// sorted alphabetically, for the filter dropdown.
func Industries(brands []domain.Brand) []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range brands {
		if b.Industry == "" || seen[b.Industry] {
			continue
		}
		seen[b.Industry] = true
		out = append(out, b.Industry)
	}
	sort.Strings(out)
	return out
}
