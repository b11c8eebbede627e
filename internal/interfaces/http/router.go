package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	billingUsecases "listcraft/internal/application/billing/usecases"
	listingUsecases "listcraft/internal/application/listing/usecases"
	"listcraft/internal/application/notification"
	"listcraft/internal/infrastructure/billingprovider"
	"listcraft/internal/infrastructure/config"
	"listcraft/internal/infrastructure/email"
	"listcraft/internal/infrastructure/generation"
	"listcraft/internal/infrastructure/ratelimit"
	"listcraft/internal/infrastructure/repository"
	"listcraft/internal/infrastructure/scheduler"
	"listcraft/internal/interfaces/http/handlers"
	"listcraft/internal/interfaces/http/middleware"
	"listcraft/internal/interfaces/http/routes"
	"listcraft/internal/shared/db"
	"listcraft/internal/shared/logger"
	"listcraft/internal/shared/utils"
)

// Router wires repositories, use cases and handlers into a gin engine.
type Router struct {
	engine         *gin.Engine
	billingHandler *handlers.BillingHandler
	webhookHandler *handlers.WebhookHandler
	listingHandler *handlers.ListingHandler
	identity       *middleware.IdentityMiddleware
	rateLimiter    *middleware.GenerationRateLimiter
	trialScheduler *scheduler.TrialNoticeScheduler
	log            logger.Interface
}

// NewRouter builds the full dependency graph on top of an open database
// connection and a Redis client.
func NewRouter(gormDB *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	// Repositories
	planRepo := repository.NewPlanRepository(gormDB, log)
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB, log)
	usageRepo := repository.NewUsageRecordRepository(gormDB, log)
	listingRepo := repository.NewListingRepository(gormDB, log)
	userDirectory := repository.NewUserDirectory(gormDB, log)

	txManager := db.NewTransactionManager(gormDB)

	// Outbound services
	emailService := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Server.BaseURL,
	})
	notifier := notification.NewNotifier(cfg.Email.Enabled, emailService, userDirectory, log)

	providerClient := billingprovider.NewClient(cfg.Billing.APIBase, cfg.Billing.APIKey, log)
	verifier := billingprovider.NewWebhookVerifier(cfg.Billing.WebhookSecret, cfg.Billing.WebhookTolerance)
	generator := generation.NewDeepSeekGenerator(cfg.Generation, log)

	// Billing use cases
	quotaService := billingUsecases.NewQuotaService(subscriptionRepo, planRepo, usageRepo, txManager, log)
	reconcileUC := billingUsecases.NewReconcileBillingEventUseCase(subscriptionRepo, planRepo, usageRepo, txManager, notifier, log)
	cancelUC := billingUsecases.NewCancelSubscriptionUseCase(subscriptionRepo, providerClient, log)
	listPlansUC := billingUsecases.NewListPlansUseCase(planRepo)
	trialNoticesUC := billingUsecases.NewSendTrialNoticesUseCase(subscriptionRepo, notifier, cfg.Billing.TrialNoticeDays, log)

	// Listing use cases
	createListingUC := listingUsecases.NewCreateListingUseCase(listingRepo, log)
	listListingsUC := listingUsecases.NewListListingsUseCase(listingRepo)
	getListingUC := listingUsecases.NewGetListingUseCase(listingRepo)
	generateUC := listingUsecases.NewGenerateDescriptionUseCase(
		listingRepo, quotaService, generator, notifier, cfg.Billing.QuotaReminderStep, log)

	// Middlewares
	identity := middleware.NewIdentityMiddleware(log)
	limiter := ratelimit.NewRedisRateLimiter(redisClient)
	rateLimiter := middleware.NewGenerationRateLimiter(limiter, ratelimit.Limits{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		RequestsPerHour:   cfg.RateLimit.RequestsPerHour,
		RequestsPerDay:    cfg.RateLimit.RequestsPerDay,
	}, log)

	return &Router{
		engine:         engine,
		billingHandler: handlers.NewBillingHandler(listPlansUC, cancelUC, quotaService, log),
		webhookHandler: handlers.NewWebhookHandler(verifier, reconcileUC, log),
		listingHandler: handlers.NewListingHandler(createListingUC, listListingsUC, getListingUC, generateUC, log),
		identity:       identity,
		rateLimiter:    rateLimiter,
		trialScheduler: scheduler.NewTrialNoticeScheduler(trialNoticesUC, log),
		log:            log,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "ok", nil)
	})

	routes.SetupBillingRoutes(r.engine, &routes.BillingRouteConfig{
		BillingHandler: r.billingHandler,
		WebhookHandler: r.webhookHandler,
		Identity:       r.identity,
	})

	routes.SetupListingRoutes(r.engine, &routes.ListingRouteConfig{
		ListingHandler: r.listingHandler,
		Identity:       r.identity,
		RateLimiter:    r.rateLimiter,
	})
}

// TrialNoticeScheduler returns the background sweep so the server command
// can run and stop it alongside the HTTP listener.
func (r *Router) TrialNoticeScheduler() *scheduler.TrialNoticeScheduler {
	return r.trialScheduler
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
