package routes

import (
	"github.com/gin-gonic/gin"

	"listcraft/internal/interfaces/http/handlers"
	"listcraft/internal/interfaces/http/middleware"
)

// BillingRouteConfig holds dependencies for billing routes.
type BillingRouteConfig struct {
	BillingHandler *handlers.BillingHandler
	WebhookHandler *handlers.WebhookHandler
	Identity       *middleware.IdentityMiddleware
}

// SetupBillingRoutes configures billing routes.
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	billing := engine.Group("/billing")
	{
		// Provider-facing endpoint, authenticated by signature only.
		billing.POST("/webhook", cfg.WebhookHandler.HandleEvent)

		// Public plan catalog.
		billing.GET("/plans", cfg.BillingHandler.ListPlans)

		account := billing.Group("")
		account.Use(cfg.Identity.RequireUser())
		{
			account.GET("/subscription", cfg.BillingHandler.GetSubscription)
			account.POST("/subscription/cancel", cfg.BillingHandler.CancelSubscription)
			account.GET("/quota", cfg.BillingHandler.GetQuota)
			account.GET("/usage", cfg.BillingHandler.GetUsageHistory)
		}
	}
}
