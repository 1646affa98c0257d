package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"analyzer-backend/internal/aggregate"
	"analyzer-backend/internal/guidance"
	"analyzer-backend/internal/roleprediction"
	"analyzer-backend/internal/shared/config"
	"analyzer-backend/internal/shared/metrics"
	"analyzer-backend/internal/shared/server/middleware"
	"analyzer-backend/internal/shared/server/respond"
)

// Handlers groups the feature handlers wired into the router.
type Handlers struct {
	Aggregate  *aggregate.Handler
	Prediction *roleprediction.Handler
	Guidance   *guidance.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, h Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	h.Aggregate.RegisterRoutes(api)
	h.Prediction.RegisterRoutes(api)
	h.Guidance.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
