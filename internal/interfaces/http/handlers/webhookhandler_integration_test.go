package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"listcraft/internal/application/billing/usecases"
	"listcraft/internal/domain/billing"
	"listcraft/internal/infrastructure/billingprovider"
	"listcraft/internal/infrastructure/persistence/models"
	"listcraft/internal/infrastructure/repository"
	"listcraft/internal/shared/db"
	"listcraft/internal/shared/logger"
)

func testHandlerLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(
		&models.UserModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.UsageRecordModel{},
		&models.ListingModel{},
	))

	return gormDB
}

type recordingNotifier struct {
	confirmed     []uint
	canceled      []uint
	paymentFailed []uint
}

func (n *recordingNotifier) SubscriptionConfirmed(_ context.Context, userID uint, _ string) {
	n.confirmed = append(n.confirmed, userID)
}

func (n *recordingNotifier) SubscriptionCanceled(_ context.Context, userID uint) {
	n.canceled = append(n.canceled, userID)
}

func (n *recordingNotifier) PaymentFailed(_ context.Context, userID uint) {
	n.paymentFailed = append(n.paymentFailed, userID)
}

func (n *recordingNotifier) QuotaThresholdReached(_ context.Context, _ uint, _ int, _ uint64, _ int64) {
}

func (n *recordingNotifier) TrialEndingSoon(_ context.Context, _ uint, _ time.Time) {}

type webhookFixture struct {
	engine           *gin.Engine
	verifier         *billingprovider.WebhookVerifier
	subscriptionRepo billing.SubscriptionRepository
	notifier         *recordingNotifier
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB := setupHandlerDB(t)
	log := testHandlerLogger()

	planRepo := repository.NewPlanRepository(gormDB, log)
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB, log)
	usageRepo := repository.NewUsageRecordRepository(gormDB, log)
	txManager := db.NewTransactionManager(gormDB)

	plan, err := billing.NewPlan("Pro", "pro", "", 2900, "USD", 50)
	require.NoError(t, err)
	plan.SetProviderIDs("price_pro", "prod_pro")
	require.NoError(t, planRepo.Create(context.Background(), plan))

	notifier := &recordingNotifier{}
	reconcileUC := usecases.NewReconcileBillingEventUseCase(
		subscriptionRepo, planRepo, usageRepo, txManager, notifier, log)

	verifier := billingprovider.NewWebhookVerifier("whsec_test", 300)
	handler := NewWebhookHandler(verifier, reconcileUC, log)

	engine := gin.New()
	engine.POST("/billing/webhook", handler.HandleEvent)

	return &webhookFixture{
		engine:           engine,
		verifier:         verifier,
		subscriptionRepo: subscriptionRepo,
		notifier:         notifier,
	}
}

func (f *webhookFixture) post(t *testing.T, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func checkoutPayload(eventID string, userID uint) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"created": 1750000000,
		"data": {"object": {
			"id": "cs_1",
			"client_reference_id": "%d",
			"customer": "cus_9",
			"subscription": "sub_9",
			"metadata": {"price_id": "price_pro"}
		}}
	}`, eventID, userID))
}

func TestWebhookHandler(t *testing.T) {
	t.Run("checkout event creates the subscription", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := checkoutPayload("evt_1", 42)

		w := f.post(t, payload, f.verifier.Sign(payload, time.Now()))
		assert.Equal(t, http.StatusOK, w.Code)

		sub, err := f.subscriptionRepo.GetByUserID(context.Background(), 42)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "sub_9", sub.ProviderSubscriptionID())
		assert.Equal(t, []uint{42}, f.notifier.confirmed)
	})

	t.Run("trialing checkout creates a trialing subscription", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{
			"id": "evt_trial_1",
			"type": "checkout.session.completed",
			"created": 1750000000,
			"data": {"object": {
				"id": "cs_2",
				"client_reference_id": "42",
				"customer": "cus_9",
				"subscription": "sub_9",
				"status": "trialing",
				"current_period_start": 1748736000,
				"current_period_end": 1751328000,
				"trial_end": 1749945600,
				"metadata": {"price_id": "price_pro"}
			}}
		}`)

		w := f.post(t, payload, f.verifier.Sign(payload, time.Now()))
		assert.Equal(t, http.StatusOK, w.Code)

		sub, err := f.subscriptionRepo.GetByUserID(context.Background(), 42)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "trialing", string(sub.Status()))
		require.NotNil(t, sub.TrialEnd())
		assert.Equal(t, int64(1749945600), sub.TrialEnd().Unix())
		require.NotNil(t, sub.CurrentPeriodStart())
		assert.Equal(t, int64(1748736000), sub.CurrentPeriodStart().Unix())
	})

	t.Run("redelivered checkout is a no-op", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := checkoutPayload("evt_1", 42)

		w := f.post(t, payload, f.verifier.Sign(payload, time.Now()))
		require.Equal(t, http.StatusOK, w.Code)

		w = f.post(t, payload, f.verifier.Sign(payload, time.Now()))
		assert.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, []uint{42}, f.notifier.confirmed, "confirmation email goes out once")
	})

	t.Run("bad signature is rejected before any business logic", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := checkoutPayload("evt_1", 42)

		w := f.post(t, payload, "t=123,v1=deadbeef")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		sub, err := f.subscriptionRepo.GetByUserID(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := checkoutPayload("evt_1", 42)

		w := f.post(t, payload, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed payload with valid signature is a 400", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`not json at all`)

		w := f.post(t, payload, f.verifier.Sign(payload, time.Now()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown event type is acknowledged", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{
			"id": "evt_x",
			"type": "customer.created",
			"created": 1750000000,
			"data": {"object": {}}
		}`)

		w := f.post(t, payload, f.verifier.Sign(payload, time.Now()))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
