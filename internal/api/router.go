// Package api wires the HTTP surface of the service: search, crawl
// triggering, stats, and health.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mizanhq/mizan/internal/api/handler"
	"github.com/mizanhq/mizan/internal/api/middleware"
	"github.com/mizanhq/mizan/internal/config"
	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/repository"
	"github.com/mizanhq/mizan/internal/retrieval"
)

// SetupRouter configures the Gin router with all routes.
func SetupRouter(
	engine *retrieval.Engine,
	crawl *crawler.Crawler,
	store repository.Store,
	cfg *config.ServerConfig,
) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	searchHandler := handler.NewSearchHandler(engine)
	crawlHandler := handler.NewCrawlHandler(crawl)
	statsHandler := handler.NewStatsHandler(store)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/search", searchHandler.Search)
		v1.GET("/search", searchHandler.SearchGet)

		v1.POST("/crawl", crawlHandler.Trigger)

		v1.GET("/stats", statsHandler.Stats)
	}

	return r
}
