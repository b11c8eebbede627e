package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"listcraft/internal/application/billing/usecases"
	"listcraft/internal/infrastructure/billingprovider"
	"listcraft/internal/shared/logger"
	"listcraft/internal/shared/utils"
)

const signatureHeader = "X-Webhook-Signature"

// maxWebhookBody bounds the payload we are willing to buffer for
// verification.
const maxWebhookBody = 1 << 20

// WebhookHandler receives billing provider events. The signature is
// checked against the raw body before anything is parsed; a failed
// reconciliation returns 500 so the provider redelivers.
type WebhookHandler struct {
	verifier    *billingprovider.WebhookVerifier
	reconcileUC *usecases.ReconcileBillingEventUseCase
	logger      logger.Interface
}

func NewWebhookHandler(
	verifier *billingprovider.WebhookVerifier,
	reconcileUC *usecases.ReconcileBillingEventUseCase,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:    verifier,
		reconcileUC: reconcileUC,
		logger:      logger,
	}
}

func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.verifier.Verify(payload, c.GetHeader(signatureHeader), time.Now()); err != nil {
		h.logger.Warnw("rejected webhook with bad signature",
			"client_ip", c.ClientIP(),
			"error", err,
		)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid signature")
		return
	}

	event, err := billingprovider.ParseEvent(payload)
	if err != nil {
		h.logger.Warnw("rejected malformed webhook payload", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "malformed event payload")
		return
	}

	if err := h.reconcileUC.Execute(c.Request.Context(), event); err != nil {
		h.logger.Errorw("billing event reconciliation failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err,
		)
		// 500 asks the provider to redeliver; handlers are idempotent.
		utils.ErrorResponse(c, http.StatusInternalServerError, "event processing failed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "event received", gin.H{"received": true})
}
