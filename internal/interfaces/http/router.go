package http

import (
	"github.com/gin-gonic/gin"

	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
	"github.com/KingdaKilla/ti-radar/internal/interfaces/http/handlers"
	"github.com/KingdaKilla/ti-radar/internal/interfaces/http/middleware"
)

// RouterConfig aggregates every handler and middleware dependency needed to
// build the full route tree.
type RouterConfig struct {
	HealthHandler      *handlers.HealthHandler
	MetadataHandler    *handlers.MetadataHandler
	SuggestionsHandler *handlers.SuggestionsHandler
	RadarHandler       *handlers.RadarHandler

	CORSConfig    middleware.CORSConfig
	LoggingConfig middleware.LoggingConfig

	Logger logging.Logger
}

// NewRouter constructs the complete HTTP route tree: global middleware
// (recovery, CORS, request logging), the health endpoint, and the
// unauthenticated API v1 surface (data metadata, suggestions, radar
// analysis). There is no authentication or tenancy layer in this service.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSConfig))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.LoggingConfig))

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.Readiness)
		r.GET("/health/live", cfg.HealthHandler.Liveness)
		r.GET("/health/detailed", cfg.HealthHandler.Detailed)
	}

	api := r.Group("/api/v1")
	{
		if cfg.MetadataHandler != nil {
			api.GET("/data/metadata", cfg.MetadataHandler.Metadata)
		}
		if cfg.SuggestionsHandler != nil {
			api.GET("/suggestions", cfg.SuggestionsHandler.Suggest)
		}
		if cfg.RadarHandler != nil {
			api.POST("/radar", cfg.RadarHandler.Analyze)
		}
	}

	return r
}
