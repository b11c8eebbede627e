package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingUsecases "listcraft/internal/application/billing/usecases"
	listingUsecases "listcraft/internal/application/listing/usecases"
	"listcraft/internal/domain/billing"
	vo "listcraft/internal/domain/billing/valueobjects"
	"listcraft/internal/infrastructure/repository"
	"listcraft/internal/interfaces/http/middleware"
	"listcraft/internal/shared/db"
)

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) GenerateDescription(_ context.Context, _ listingUsecases.GenerationRequest) (string, error) {
	return s.text, s.err
}

type silentQuotaNotifier struct{}

func (silentQuotaNotifier) QuotaThresholdReached(_ context.Context, _ uint, _ int, _ uint64, _ int64) {
}

type listingFixture struct {
	engine *gin.Engine
	gen    *stubGenerator
}

// newListingFixture wires the listing API over an in-memory database with
// a plan of the given quota and an active subscription for user 7.
func newListingFixture(t *testing.T, quota int64) *listingFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB := setupHandlerDB(t)
	log := testHandlerLogger()

	planRepo := repository.NewPlanRepository(gormDB, log)
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB, log)
	usageRepo := repository.NewUsageRecordRepository(gormDB, log)
	listingRepo := repository.NewListingRepository(gormDB, log)
	txManager := db.NewTransactionManager(gormDB)

	plan, err := billing.NewPlan("Pro", "pro", "", 2900, "USD", quota)
	require.NoError(t, err)
	require.NoError(t, planRepo.Create(context.Background(), plan))

	sub, err := billing.NewSubscription(7, plan.ID(), "cus_7", "sub_7", vo.StatusActive)
	require.NoError(t, err)
	require.NoError(t, subscriptionRepo.Create(context.Background(), sub))

	quotaService := billingUsecases.NewQuotaService(subscriptionRepo, planRepo, usageRepo, txManager, log)
	gen := &stubGenerator{text: "A lovely home."}

	createUC := listingUsecases.NewCreateListingUseCase(listingRepo, log)
	listUC := listingUsecases.NewListListingsUseCase(listingRepo)
	getUC := listingUsecases.NewGetListingUseCase(listingRepo)
	generateUC := listingUsecases.NewGenerateDescriptionUseCase(
		listingRepo, quotaService, gen, silentQuotaNotifier{}, 10, log)

	handler := NewListingHandler(createUC, listUC, getUC, generateUC, log)
	identity := middleware.NewIdentityMiddleware(log)

	engine := gin.New()
	listings := engine.Group("/listings")
	listings.Use(identity.RequireUser())
	{
		listings.POST("", handler.CreateListing)
		listings.GET("", handler.ListListings)
		listings.GET("/:id", handler.GetListing)
		listings.POST("/:id/generate", handler.GenerateDescription)
	}

	return &listingFixture{engine: engine, gen: gen}
}

func (f *listingFixture) request(t *testing.T, method, path string, userID uint, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *listingFixture) createListing(t *testing.T, userID uint) uint {
	t.Helper()

	w := f.request(t, http.MethodPost, "/listings", userID, gin.H{
		"title":         "Sunny Craftsman",
		"property_type": "house",
		"bedrooms":      3,
		"bathrooms":     2,
		"square_feet":   1800,
		"location":      "Portland, OR",
		"features":      []string{"hardwood floors"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.Data.ID)
	return resp.Data.ID
}

func TestListingAPI(t *testing.T) {
	t.Run("requires user identity", func(t *testing.T) {
		f := newListingFixture(t, 50)

		w := f.request(t, http.MethodGet, "/listings", 0, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create and list", func(t *testing.T) {
		f := newListingFixture(t, 50)
		f.createListing(t, 7)

		w := f.request(t, http.MethodGet, "/listings", 7, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Sunny Craftsman")
	})

	t.Run("create rejects missing title", func(t *testing.T) {
		f := newListingFixture(t, 50)

		w := f.request(t, http.MethodPost, "/listings", 7, gin.H{"property_type": "house"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("generate writes the description and charges one unit", func(t *testing.T) {
		f := newListingFixture(t, 50)
		id := f.createListing(t, 7)

		w := f.request(t, http.MethodPost, fmt.Sprintf("/listings/%d/generate", id), 7, gin.H{"tone": "luxury"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Data struct {
				Listing struct {
					GeneratedDescription string `json:"generated_description"`
					Status               string `json:"status"`
				} `json:"listing"`
				Quota struct {
					Used      uint64 `json:"used"`
					Remaining int64  `json:"remaining"`
				} `json:"quota"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "A lovely home.", resp.Data.Listing.GeneratedDescription)
		assert.Equal(t, "generated", resp.Data.Listing.Status)
		assert.Equal(t, uint64(1), resp.Data.Quota.Used)
		assert.Equal(t, int64(49), resp.Data.Quota.Remaining)
	})

	t.Run("exhausted quota returns payment required", func(t *testing.T) {
		f := newListingFixture(t, 1)
		id := f.createListing(t, 7)

		w := f.request(t, http.MethodPost, fmt.Sprintf("/listings/%d/generate", id), 7, gin.H{"tone": "concise"})
		require.Equal(t, http.StatusOK, w.Code)

		w = f.request(t, http.MethodPost, fmt.Sprintf("/listings/%d/generate", id), 7, gin.H{"tone": "concise"})
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("invalid tone is rejected by binding", func(t *testing.T) {
		f := newListingFixture(t, 50)
		id := f.createListing(t, 7)

		w := f.request(t, http.MethodPost, fmt.Sprintf("/listings/%d/generate", id), 7, gin.H{"tone": "sarcastic"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("another user's listing is forbidden", func(t *testing.T) {
		f := newListingFixture(t, 50)
		id := f.createListing(t, 7)

		w := f.request(t, http.MethodGet, fmt.Sprintf("/listings/%d", id), 9, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown listing is not found", func(t *testing.T) {
		f := newListingFixture(t, 50)

		w := f.request(t, http.MethodGet, "/listings/999", 7, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
