package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"esglens/internal/config"
	"esglens/internal/infrastructure/cache"
	"esglens/internal/infrastructure/gnews"
	"esglens/internal/infrastructure/httpapi"
	"esglens/internal/infrastructure/scheduler"
	"esglens/internal/infrastructure/storage"
	"esglens/internal/logging"
	"esglens/internal/ports"
	"esglens/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	server    *httpapi.Server
	refresher *usecase.Refresher
	driver    ports.Scheduler
	closers   []func() error
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	repo := storage.NewPostgresRepository(db)

	var seen ports.SeenFilter
	var closers []func() error
	closers = append(closers, db.Close)
	if cfg.Redis.Addr != "" {
		seenCache := cache.NewSeenURLs(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL())
		seen = seenCache
		closers = append(closers, seenCache.Close)
	}

	news := usecase.NewNewsService(usecase.NewsDeps{
		Brands: repo,
		Store:  repo,
		Source: gnews.NewClient(cfg.GNews.Endpoint, cfg.GNews.APIKey),
		Seen:   seen,
		Logger: baseLogger.With("component", "news"),
	})

	favorites := usecase.NewFavorites(repo, baseLogger.With("component", "favorites"))

	server := httpapi.NewServer(httpapi.Deps{
		Brands:    repo,
		Profiles:  repo,
		News:      news,
		Favorites: favorites,
		JWTSecret: cfg.Auth.JWTSecret,
		Logger:    baseLogger.With("component", "http"),
	})

	refresher := usecase.NewRefresher(repo, news, baseLogger.With("component", "refresher"))
	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		server:    server,
		refresher: refresher,
		driver:    driver,
		closers:   closers,
	}, nil
}

// Run starts the refresh schedule and serves the API until the listener
// stops.
func (a *Application) Run(ctx context.Context) error {
	if err := a.refresher.RunScheduled(ctx, a.driver); err != nil {
		return fmt.Errorf("start refresh schedule: %w", err)
	}

	a.logger.Info("listening", "addr", a.cfg.Server.Addr)
	return a.server.ListenAndServe(a.cfg.Server.Addr)
}

// Close releases held resources.
func (a *Application) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
}
