package http

import (
	"github.com/gin-gonic/gin"

	"github.com/supptrack/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/search", handler.SearchProducts)
			products.GET("/:productId/listings/:vendorId", handler.GetListing)
			products.PUT("/:productId/listings/:vendorId", handler.UpdateListing)
			products.DELETE("/:productId/listings/:vendorId", handler.DeleteListing)
		}

		// Ingest endpoints are scraper-facing and rate limited.
		ingest := v1.Group("", RateLimitMiddleware(cfg.RateLimit.PerIP))
		{
			ingest.POST("/listings", handler.IngestListings)
			ingest.POST("/listings/prices", handler.AggregatePrices)
			ingest.POST("/vendors/:vendorId/sync", handler.SyncVendor)
		}

		v1.GET("/listings", handler.ListListings)
	}

	return router
}
