package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"esglens/internal/ports"
	"esglens/internal/usecase"
)

// Server exposes the brand catalog, news, favorites and the extension's
// detection endpoints over HTTP.
type Server struct {
	brands    ports.BrandStore
	profiles  ports.ProfileStore
	news      *usecase.NewsService
	favorites *usecase.Favorites
	jwtSecret []byte
	logger    *slog.Logger
}

// Deps wires the server's collaborators.
type Deps struct {
	Brands    ports.BrandStore
	Profiles  ports.ProfileStore
	News      *usecase.NewsService
	Favorites *usecase.Favorites
	JWTSecret string
	Logger    *slog.Logger
}

// NewServer builds the API server.
func NewServer(deps Deps) *Server {
	return &Server{
		brands:    deps.Brands,
		profiles:  deps.Profiles,
		news:      deps.News,
		favorites: deps.Favorites,
		jwtSecret: []byte(deps.JWTSecret),
		logger:    deps.Logger,
	}
}

// Router constructs a Gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	api := r.Group("/api/v1")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/brands", s.handleListBrands)
		api.GET("/brands/:id", s.handleGetBrand)
		api.GET("/brands/:id/news", s.handleBrandNews)
		api.GET("/index", s.handleProductIndex)
		api.POST("/detect", s.handleDetect)
	}

	authed := r.Group("/api/v1", s.authMiddleware())
	{
		authed.GET("/favorites", s.handleListFavorites)
		authed.POST("/favorites/:id", s.handleToggleFavorite)
	}

	return r
}

// ListenAndServe runs the API on addr with sane timeouts.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
