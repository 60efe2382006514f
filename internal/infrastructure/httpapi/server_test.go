package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"esglens/internal/domain"
	"esglens/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBrandStore struct {
	brands []domain.Brand
}

func (f *fakeBrandStore) ListBrands(context.Context) ([]domain.Brand, error) {
	return f.brands, nil
}

func (f *fakeBrandStore) GetBrand(_ context.Context, id string) (domain.Brand, error) {
	for _, b := range f.brands {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Brand{}, context.Canceled
}

type fakeNewsStore struct {
	recent []domain.NewsArticle
}

func (f *fakeNewsStore) RecentNews(context.Context, string, time.Time) ([]domain.NewsArticle, error) {
	return f.recent, nil
}

func (f *fakeNewsStore) NewsURLs(context.Context, string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (f *fakeNewsStore) InsertNews(context.Context, []domain.NewsArticle) error {
	return nil
}

type fakeSource struct{}

func (fakeSource) Search(context.Context, string, int) ([]domain.FetchedArticle, error) {
	return nil, nil
}

type fakeFavoriteStore struct {
	favs map[string]bool
}

func (f *fakeFavoriteStore) ListFavorites(context.Context, string) (map[string]bool, error) {
	return f.favs, nil
}

func (f *fakeFavoriteStore) AddFavorite(_ context.Context, _, brandID string) error {
	f.favs[brandID] = true
	return nil
}

func (f *fakeFavoriteStore) RemoveFavorite(_ context.Context, _, brandID string) error {
	delete(f.favs, brandID)
	return nil
}

func (f *fakeFavoriteStore) FavoritedBrandIDs(context.Context) ([]string, error) {
	var ids []string
	for id := range f.favs {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeProfileStore struct{}

func (fakeProfileStore) GetProfile(_ context.Context, id string) (domain.Profile, error) {
	return domain.Profile{ID: id, Name: "Demo", Email: "demo@example.com"}, nil
}

func score(v float64) *float64 { return &v }

func testServer(favs map[string]bool) *Server {
	brands := &fakeBrandStore{brands: []domain.Brand{
		{ID: "1", BrandName: "Nike", CompanyName: "Nike Inc", Industry: "Apparel",
			Products: []string{"Air Max"}, OverallScore: score(79)},
		{ID: "2", BrandName: "Tesla", CompanyName: "Tesla Inc", Industry: "Automotive",
			Products: []string{"Model 3"}, OverallScore: score(78)},
	}}
	newsStore := &fakeNewsStore{recent: make([]domain.NewsArticle, 7)}
	if favs == nil {
		favs = map[string]bool{}
	}

	return NewServer(Deps{
		Brands:   brands,
		Profiles: fakeProfileStore{},
		News: usecase.NewNewsService(usecase.NewsDeps{
			Brands: brands,
			Store:  newsStore,
			Source: fakeSource{},
		}),
		Favorites: usecase.NewFavorites(&fakeFavoriteStore{favs: favs}, nil),
		JWTSecret: "test-secret",
	})
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.StandardClaims{
		Subject:   subject,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestListBrandsFilterAndSort(t *testing.T) {
	srv := testServer(nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/brands?search=model+3", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Brands     []domain.Brand `json:"brands"`
		Total      int            `json:"total"`
		Industries []string       `json:"industries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Brands) != 1 || payload.Brands[0].BrandName != "Tesla" {
		t.Fatalf("expected Tesla only, got %+v", payload.Brands)
	}
	if payload.Total != 2 {
		t.Fatalf("expected total=2, got %d", payload.Total)
	}
	if len(payload.Industries) != 2 {
		t.Fatalf("expected 2 industries, got %v", payload.Industries)
	}
}

func TestBrandNewsServedFromCache(t *testing.T) {
	srv := testServer(nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/brands/1/news", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		News []domain.NewsArticle `json:"news"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.News) != 7 {
		t.Fatalf("expected 7 cached rows, got %d", len(payload.News))
	}
}

func TestDetectEndpoint(t *testing.T) {
	srv := testServer(nil)

	body := `{"html": "<h1>Buy the new Model 3 today</h1>", "hostname": "shop.example.com"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/detect", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Detections []struct {
			Brand domain.Brand `json:"brand"`
		} `json:"detections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Detections) != 1 || payload.Detections[0].Brand.BrandName != "Tesla" {
		t.Fatalf("unexpected detections: %+v", payload.Detections)
	}
}

func TestProductIndexEndpoint(t *testing.T) {
	srv := testServer(nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/index", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var payload struct {
		Patterns []struct {
			Pattern  string `json:"pattern"`
			BrandKey string `json:"brand_key"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %+v", payload.Patterns)
	}
	if payload.Patterns[0].Pattern != "air max" || payload.Patterns[0].BrandKey != "nike" {
		t.Fatalf("insertion order lost: %+v", payload.Patterns)
	}
}

func TestFavoritesRequireAuth(t *testing.T) {
	srv := testServer(nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/favorites", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/favorites", "", "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for junk token, got %d", rec.Code)
	}
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	srv := testServer(map[string]bool{})
	token := signToken(t, "user-1")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/favorites/2", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var toggled struct {
		Favorited bool `json:"favorited"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !toggled.Favorited {
		t.Fatal("first toggle must favorite")
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/favorites/2", "", token)
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if toggled.Favorited {
		t.Fatal("second toggle must unfavorite")
	}
}
