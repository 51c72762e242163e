package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stylesphere/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if cfg.Server.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	}

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var limiter *RateLimiter
	if cfg.RateLimit.PerIP > 0 {
		limiter = NewRateLimiter(cfg.RateLimit.PerIP, time.Minute)
	}

	// API v1 routes
	v1 := router.Group("/api/v1", RateLimitMiddleware(limiter))
	{
		v1.POST("/analyze-colors", handler.AnalyzeColors)
		v1.POST("/analyze-wardrobe-item", handler.AnalyzeWardrobeItem)
		v1.POST("/generate-style-dna", handler.GenerateStyleDNA)
		v1.GET("/user-profile/:user_id", handler.GetUserProfile)
		v1.POST("/recommendations", handler.Recommend)
	}

	return router
}
