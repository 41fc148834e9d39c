package di

import (
	"context"
	"net/http"

	"github.com/SergeyParamoshkin/sportsnews/internal/article"
	"github.com/SergeyParamoshkin/sportsnews/internal/auth"
	"github.com/SergeyParamoshkin/sportsnews/internal/config"
	"github.com/SergeyParamoshkin/sportsnews/internal/errresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/football"
	"github.com/SergeyParamoshkin/sportsnews/internal/imagestore"
	"github.com/SergeyParamoshkin/sportsnews/internal/keepalive"
	"github.com/SergeyParamoshkin/sportsnews/internal/metrics"
	"github.com/SergeyParamoshkin/sportsnews/internal/router"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the wired process: the API router plus the background worker.
type App struct {
	Router    chi.Router
	KeepAlive *keepalive.Job
}

// Start launches background work. Call once.
func (a *App) Start() {
	if a.KeepAlive != nil {
		a.KeepAlive.Start()
	}
}

func (a *App) Stop(ctx context.Context) {
	if a.KeepAlive != nil {
		a.KeepAlive.Stop(ctx)
	}
}

func provideDB(cfg *config.Config, logger *zap.SugaredLogger) (*gorm.DB, func(), error) {
	db, err := store.Open(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}

	if err := store.Migrate(db); err != nil {
		_ = store.Close(db)

		return nil, nil, err
	}

	cleanup := func() {
		if err := store.Close(db); err != nil {
			logger.Errorw("close database", "error", err)
		}
	}

	return db, cleanup, nil
}

// provideImageStore picks Cloudinary when configured and the local upload
// directory otherwise.
func provideImageStore(cfg *config.Config, logger *zap.SugaredLogger) (imagestore.Store, error) {
	if cfg.CloudinaryURL != "" {
		logger.Infow("storing images on cloudinary", "folder", imagestore.Folder)

		return imagestore.NewCloudinary(cfg.CloudinaryURL, imagestore.Folder)
	}

	logger.Infow("storing images on disk", "dir", cfg.UploadDir)

	return imagestore.NewDisk(cfg.UploadDir, cfg.UploadBaseURL)
}

// provideUploads exposes the upload directory only for the disk store.
func provideUploads(images imagestore.Store) http.FileSystem {
	if disk, ok := images.(*imagestore.Disk); ok {
		return http.Dir(disk.Dir())
	}

	return nil
}

func provideResponder(cfg *config.Config) *errresponse.Responder {
	return errresponse.NewResponder(!cfg.IsProduction())
}

func provideTokenManager(cfg *config.Config) (*auth.TokenManager, error) {
	return auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
}

func provideCookiePolicy(cfg *config.Config) auth.CookiePolicy {
	return auth.CookiePolicy{Secure: cfg.IsProduction(), MaxDays: cfg.JWTCookieExpireDays}
}

func provideFootballClient(cfg *config.Config, logger *zap.SugaredLogger, m *metrics.Metrics) *football.Client {
	if cfg.FootballDataKey == "" {
		logger.Warn("FOOTBALL_DATA_KEY is not set, match endpoints will fail")
	}

	return football.NewClient(cfg.FootballDataURL, cfg.FootballDataKey, cfg.FootballDataTimeout, logger,
		football.WithObserver(m),
	)
}

func provideRouter(
	cfg *config.Config,
	logger *zap.SugaredLogger,
	m *metrics.Metrics,
	responder *errresponse.Responder,
	authHandler *auth.Handler,
	articleHandler *article.Handler,
	matchHandler *football.Handler,
	uploads http.FileSystem,
) chi.Router {
	return router.New(router.Options{
		Development: !cfg.IsProduction(),
		ClientURL:   cfg.ClientURL,
		RateLimit:   cfg.RateLimit,
		Logger:      logger,
		Metrics:     m,
		Responder:   responder,
		Auth:        authHandler,
		Articles:    articleHandler,
		Matches:     matchHandler,
		Uploads:     uploads,
	})
}

// provideKeepAlive returns nil when no KEEPALIVE_URL is configured.
func provideKeepAlive(cfg *config.Config, logger *zap.SugaredLogger) (*keepalive.Job, error) {
	if cfg.KeepAliveURL == "" {
		return nil, nil
	}

	return keepalive.New(cfg.KeepAliveSchedule, cfg.KeepAliveURL, keepalive.DefaultTimeout, logger)
}
