package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"listcraft/internal/infrastructure/ratelimit"
	"listcraft/internal/shared/logger"
	"listcraft/internal/shared/utils"
)

// GenerationRateLimiter throttles the generation endpoint per user on top
// of the monthly quota, protecting the upstream text generation API from
// bursts.
type GenerationRateLimiter struct {
	limiter ratelimit.RateLimiter
	limits  ratelimit.Limits
	logger  logger.Interface
}

func NewGenerationRateLimiter(limiter ratelimit.RateLimiter, limits ratelimit.Limits, logger logger.Interface) *GenerationRateLimiter {
	return &GenerationRateLimiter{
		limiter: limiter,
		limits:  limits,
		logger:  logger,
	}
}

func (rl *GenerationRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			// RequireUser runs first on these routes; without it fall
			// back to the client IP.
			allowedAnon, err := rl.limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP(), rl.limits)
			rl.finish(c, allowedAnon, err)
			return
		}

		key := fmt.Sprintf("user:%d:generate", userID)
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.limits)
		rl.finish(c, allowed, err)
	}
}

func (rl *GenerationRateLimiter) finish(c *gin.Context, allowed bool, err error) {
	if err != nil {
		// A limiter outage must not take the endpoint down with it.
		rl.logger.Errorw("rate limiter unavailable, allowing request", "error", err)
		c.Next()
		return
	}

	if !allowed {
		utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
		c.Abort()
		return
	}

	c.Next()
}
