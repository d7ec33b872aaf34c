package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shoefinder/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/docs", APIDocs(cfg.Docs.SpecDir))
	if handler.metrics != nil {
		router.GET("/metrics", gin.WrapH(handler.metrics))
	}

	limited := router.Group("")
	limited.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// API v1 routes
	v1 := limited.Group("/api/v1")
	{
		shoes := v1.Group("/shoes")
		{
			shoes.GET("/search", handler.SearchShoes)
			shoes.POST("/search", handler.SearchShoes)
		}
		v1.POST("/catalog/refresh", handler.RefreshCatalog)
	}

	// Tool-calling endpoint (streamable HTTP: POST, GET for SSE, DELETE to end a session)
	if handler.mcp != nil {
		mcp := gin.WrapH(handler.mcp)
		limited.POST("/mcp", mcp)
		limited.GET("/mcp", mcp)
		limited.DELETE("/mcp", mcp)
	}

	return router
}
