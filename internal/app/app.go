package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/config"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/database"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/modules/content/initiative"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/modules/storage/media"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const connectTimeout = 30 * time.Second

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	store  *database.Store
	logger *zap.Logger
}

// New initializes the application: database → media storage → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	store, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	storage, err := media.NewStorage(cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("media storage: %w", err)
	}
	logger.Info("media storage ready", zap.String("driver", cfg.Media.Driver))

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	mediaSvc := media.NewService(storage, cfg.Media.MaxSizeMB)
	resolver := initiative.NewPostGISStreetResolver(store.DB, cfg.Geocoding)
	deps := dependencies{
		db:          store,
		initiatives: initiative.NewService(store.DB, resolver),
		media:       mediaSvc,
	}
	if local, ok := storage.(*media.LocalStorage); ok {
		deps.localMediaDir = local.Dir()
	}

	return &App{
		cfg:    cfg,
		router: newRouter(cfg, logger, deps),
		store:  store,
		logger: logger,
	}, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return a.cfg.Addr() }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the database pool.
func (a *App) Shutdown() { a.store.Close() }
