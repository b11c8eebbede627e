package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"listcraft/internal/application/billing/usecases"
	"listcraft/internal/domain/billing"
	"listcraft/internal/interfaces/http/middleware"
	"listcraft/internal/shared/billingperiod"
	"listcraft/internal/shared/logger"
	"listcraft/internal/shared/utils"
)

// BillingHandler serves the account-facing billing API: plan catalog,
// subscription state, quota status, usage history and cancel intent.
type BillingHandler struct {
	listPlansUC  *usecases.ListPlansUseCase
	cancelUC     *usecases.CancelSubscriptionUseCase
	quotaService *usecases.QuotaService
	logger       logger.Interface
}

func NewBillingHandler(
	listPlansUC *usecases.ListPlansUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	quotaService *usecases.QuotaService,
	logger logger.Interface,
) *BillingHandler {
	return &BillingHandler{
		listPlansUC:  listPlansUC,
		cancelUC:     cancelUC,
		quotaService: quotaService,
		logger:       logger,
	}
}

func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.listPlansUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseFromErr(c, http.StatusInternalServerError, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plans retrieved", plans)
}

func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	details, err := h.quotaService.CurrentSubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "no subscription found")
			return
		}
		utils.ErrorResponseFromErr(c, http.StatusInternalServerError, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription retrieved", details)
}

func (h *BillingHandler) GetQuota(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	status, err := h.quotaService.CheckQuota(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) || errors.Is(err, billing.ErrSubscriptionInactive) {
			utils.ErrorResponse(c, http.StatusNotFound, "no active subscription")
			return
		}
		utils.ErrorResponseFromErr(c, http.StatusInternalServerError, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "quota retrieved", status)
}

func (h *BillingHandler) GetUsageHistory(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	months := 6
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 24 {
			utils.ErrorResponse(c, http.StatusBadRequest, "months must be between 1 and 24")
			return
		}
		months = parsed
	}

	now := time.Now().UTC()
	from := billingperiod.Current(now.AddDate(0, -(months - 1), 0)).Start
	to := billingperiod.Current(now).End

	records, err := h.quotaService.UsageHistory(c.Request.Context(), userID, from, to)
	if err != nil {
		utils.ErrorResponseFromErr(c, http.StatusInternalServerError, err)
		return
	}

	history := make([]gin.H, 0, len(records))
	for _, record := range records {
		history = append(history, gin.H{
			"period_start":           record.PeriodStart(),
			"period_end":             record.PeriodEnd(),
			"descriptions_generated": record.DescriptionsGenerated(),
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "usage history retrieved", history)
}

func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return
	}

	err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{UserID: userID})
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "no subscription found")
			return
		}
		if errors.Is(err, billing.ErrSubscriptionInactive) {
			utils.ErrorResponse(c, http.StatusConflict, "subscription is not active")
			return
		}
		utils.ErrorResponseFromErr(c, http.StatusInternalServerError, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "cancellation scheduled for period end", nil)
}
