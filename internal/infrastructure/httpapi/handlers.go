package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"esglens/internal/domain"
	"esglens/internal/infrastructure/gnews"
	"esglens/internal/infrastructure/page"
	"esglens/internal/matcher"
	"esglens/internal/usecase"
)

// handleListBrands serves the brand list with in-memory search, industry
// filter and sort applied, the same way the web UI filters locally.
func (s *Server) handleListBrands(c *gin.Context) {
	brands, err := s.brands.ListBrands(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusBadGateway, "brand list unavailable", err)
		return
	}

	query := usecase.CatalogQuery{
		Search:   c.Query("search"),
		Industry: c.Query("industry"),
		SortBy:   c.Query("sort"),
	}

	if c.Query("favorites") == "true" {
		userID, ok := s.optionalUser(c)
		if !ok {
			s.fail(c, http.StatusUnauthorized, "favorites filter requires authentication", nil)
			return
		}
		favs, err := s.favorites.List(c.Request.Context(), userID)
		if err != nil {
			s.fail(c, http.StatusBadGateway, "favorites unavailable", err)
			return
		}
		query.FavoritesOnly = true
		query.Favorites = favs
	}

	filtered := usecase.FilterBrands(brands, query)
	c.JSON(http.StatusOK, gin.H{
		"brands":     filtered,
		"total":      len(brands),
		"industries": usecase.Industries(brands),
	})
}

func (s *Server) handleGetBrand(c *gin.Context) {
	brand, err := s.brands.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.fail(c, http.StatusNotFound, "brand not found", nil)
			return
		}
		s.fail(c, http.StatusBadGateway, "brand unavailable", err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

// handleBrandNews runs the cache-then-fetch pipeline. Quota exhaustion maps
// to 429 and structured provider errors to 502 so the UI can show a
// distinct error state instead of stale silence.
func (s *Server) handleBrandNews(c *gin.Context) {
	rows, err := s.news.BrandNews(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded):
			s.fail(c, http.StatusTooManyRequests, "news quota exhausted", err)
		case errors.Is(err, sql.ErrNoRows):
			s.fail(c, http.StatusNotFound, "brand not found", nil)
		default:
			var apiErr *gnews.APIError
			if errors.As(err, &apiErr) {
				s.fail(c, http.StatusBadGateway, "news source error", err)
				return
			}
			s.fail(c, http.StatusBadGateway, "news unavailable", err)
		}
		return
	}
	if rows == nil {
		rows = []domain.NewsArticle{}
	}
	c.JSON(http.StatusOK, gin.H{"news": rows})
}

// handleProductIndex serves the product-name index the browser extension
// scans with locally.
func (s *Server) handleProductIndex(c *gin.Context) {
	idx, brands, err := s.buildIndex(c)
	if err != nil {
		return
	}

	byKey := make(map[string]domain.Brand, len(brands))
	for _, b := range brands {
		if key := b.Key(); key != "" {
			if _, ok := byKey[key]; !ok {
				byKey[key] = b
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"patterns": idx.Patterns(),
		"brands":   byKey,
	})
}

type detectRequest struct {
	HTML     string `json:"html" binding:"required"`
	Hostname string `json:"hostname"`
}

// handleDetect applies the brand matcher server-side to a posted page.
func (s *Server) handleDetect(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid detect payload", err)
		return
	}

	idx, _, err := s.buildIndex(c)
	if err != nil {
		return
	}

	detections, err := page.NewScanner(idx).Scan(req.HTML, req.Hostname)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "unparseable page", err)
		return
	}
	if detections == nil {
		detections = []page.Detection{}
	}
	c.JSON(http.StatusOK, gin.H{"detections": detections})
}

func (s *Server) handleListFavorites(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	favs, err := s.favorites.List(c.Request.Context(), userID)
	if err != nil {
		s.fail(c, http.StatusBadGateway, "favorites unavailable", err)
		return
	}

	ids := make([]string, 0, len(favs))
	for id := range favs {
		ids = append(ids, id)
	}
	c.JSON(http.StatusOK, gin.H{"favorites": ids})
}

// handleToggleFavorite applies the store write first; the response reports
// the state after a successful write only.
func (s *Server) handleToggleFavorite(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	favorited, err := s.favorites.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		s.fail(c, http.StatusBadGateway, "favorite toggle failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brand_id": c.Param("id"), "favorited": favorited})
}

// buildIndex lists brands and constructs a request-scoped product index.
// Indices are small (tens to low hundreds of entries), so rebuilding per
// request keeps the hosted store the single source of truth.
func (s *Server) buildIndex(c *gin.Context) (*matcher.Index, []domain.Brand, error) {
	brands, err := s.brands.ListBrands(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusBadGateway, "brand list unavailable", err)
		return nil, nil, err
	}
	return matcher.BuildIndex(brands), brands, nil
}

func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	if err != nil && s.logger != nil {
		s.logger.Error(msg, "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
