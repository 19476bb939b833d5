package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ServiceName = "Taganrog Platform API"
	Version     = "1.0.0"

	pingTimeout = 2 * time.Second
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterRoutes(rg gin.IRoutes, db Pinger) {
	rg.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{"message": ServiceName, "version": Version})
	})

	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if db == nil || db.Ping(ctx) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		response.OK(c, gin.H{"status": "healthy"})
	})
}
