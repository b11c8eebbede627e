package routes

import (
	"github.com/gin-gonic/gin"

	"listcraft/internal/interfaces/http/handlers"
	"listcraft/internal/interfaces/http/middleware"
)

// ListingRouteConfig holds dependencies for listing routes.
type ListingRouteConfig struct {
	ListingHandler *handlers.ListingHandler
	Identity       *middleware.IdentityMiddleware
	RateLimiter    *middleware.GenerationRateLimiter
}

// SetupListingRoutes configures listing routes. Generation carries the
// per-user rate limit on top of the monthly quota.
func SetupListingRoutes(engine *gin.Engine, cfg *ListingRouteConfig) {
	listings := engine.Group("/listings")
	listings.Use(cfg.Identity.RequireUser())
	{
		listings.POST("", cfg.ListingHandler.CreateListing)
		listings.GET("", cfg.ListingHandler.ListListings)
		listings.GET("/:id", cfg.ListingHandler.GetListing)
		listings.POST("/:id/generate", cfg.RateLimiter.Limit(), cfg.ListingHandler.GenerateDescription)
	}
}
