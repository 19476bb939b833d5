package app

import (
	"strings"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/config"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/middleware"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/modules/content/initiative"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/modules/storage/media"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/modules/system/core/health"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/pkg/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type dependencies struct {
	db          health.Pinger
	initiatives initiative.Repository
	media       *media.Service
	// localMediaDir is set when uploads land on the local disk.
	localMediaDir string
}

func newRouter(cfg *config.AppConfig, logger *zap.Logger, deps dependencies) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	health.RegisterRoutes(r, deps.db)

	var uploader initiative.MediaUploader
	if deps.media != nil {
		uploader = deps.media
		media.NewHandler(deps.media).RegisterRoutes(r)
	}
	initiative.NewHandler(deps.initiatives, uploader, logger.Named("initiative")).RegisterRoutes(r)

	if deps.localMediaDir != "" && strings.HasPrefix(cfg.Media.BaseURL, "/") {
		r.Static(cfg.Media.BaseURL, deps.localMediaDir)
	}
	return r
}
