package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"listcraft/internal/domain/billing"
	vo "listcraft/internal/domain/billing/valueobjects"
	"listcraft/internal/infrastructure/persistence/models"
	"listcraft/internal/shared/billingperiod"
	"listcraft/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.UsageRecordModel{},
		&models.ListingModel{},
	)
	require.NoError(t, err)

	return db
}

func testRepoLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createTestPlan(t *testing.T, repo billing.PlanRepository, slug string, quota int64) *billing.Plan {
	t.Helper()
	plan, err := billing.NewPlan("Plan "+slug, slug, "", 2900, "USD", quota)
	require.NoError(t, err)
	plan.SetProviderIDs("price_"+slug, "prod_"+slug)
	require.NoError(t, repo.Create(context.Background(), plan))
	return plan
}

func TestPlanRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testRepoLogger())
	ctx := context.Background()

	t.Run("create and fetch by slug", func(t *testing.T) {
		plan := createTestPlan(t, repo, "pro", 50)
		assert.NotZero(t, plan.ID())

		found, err := repo.GetBySlug(ctx, "pro")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(50), found.DescriptionQuota())
	})

	t.Run("fetch by provider price", func(t *testing.T) {
		createTestPlan(t, repo, "agency", billing.QuotaUnlimited)

		found, err := repo.GetByProviderPriceID(ctx, "price_agency")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.IsUnlimited())

		missing, err := repo.GetByProviderPriceID(ctx, "price_nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate slug fails", func(t *testing.T) {
		plan, err := billing.NewPlan("Pro Again", "pro", "", 3900, "USD", 60)
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, plan))
	})

	t.Run("active plans exclude deactivated", func(t *testing.T) {
		plan := createTestPlan(t, repo, "legacy", 10)
		plan.Deactivate()
		require.NoError(t, repo.Update(ctx, plan))

		plans, err := repo.GetActivePlans(ctx)
		require.NoError(t, err)
		for _, p := range plans {
			assert.NotEqual(t, "legacy", p.Slug())
		}
	})
}

func TestSubscriptionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, testRepoLogger())
	ctx := context.Background()

	newSub := func(t *testing.T, userID uint) *billing.Subscription {
		t.Helper()
		sub, err := billing.NewSubscription(userID, 1, "cus_1", "sub_u1", vo.StatusActive)
		require.NoError(t, err)
		return sub
	}

	t.Run("create and fetch", func(t *testing.T) {
		sub := newSub(t, 1)
		require.NoError(t, repo.Create(ctx, sub))
		assert.NotZero(t, sub.ID())

		found, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, vo.StatusActive, found.Status())

		byProvider, err := repo.GetByProviderSubscriptionID(ctx, "sub_u1")
		require.NoError(t, err)
		require.NotNil(t, byProvider)
		assert.Equal(t, uint(1), byProvider.UserID())
	})

	t.Run("missing user returns nil", func(t *testing.T) {
		found, err := repo.GetByUserID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("one subscription per user", func(t *testing.T) {
		dup := newSub(t, 1)
		assert.Error(t, repo.Create(ctx, dup))
	})

	t.Run("update persists provider-owned fields", func(t *testing.T) {
		sub, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, sub)

		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, sub.SyncFromProvider(vo.StatusPastDue, &start, &end, true, nil))
		require.NoError(t, repo.Update(ctx, sub))

		found, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, vo.StatusPastDue, found.Status())
		assert.True(t, found.CancelAtPeriodEnd())
		require.NotNil(t, found.CurrentPeriodEnd())
		assert.True(t, found.CurrentPeriodEnd().UTC().Equal(end))
	})

	t.Run("finds ending trials without notice stamp", func(t *testing.T) {
		trialEnd := time.Now().Add(48 * time.Hour)
		sub, err := billing.NewSubscription(2, 1, "cus_2", "sub_u2", vo.StatusTrialing)
		require.NoError(t, err)
		require.NoError(t, sub.ReplaceFromCheckout(1, "cus_2", "sub_u2", vo.StatusTrialing, nil, nil, &trialEnd))
		require.NoError(t, repo.Create(ctx, sub))

		ending, err := repo.FindTrialsEndingBefore(ctx, time.Now().Add(72*time.Hour))
		require.NoError(t, err)
		require.Len(t, ending, 1)
		assert.Equal(t, uint(2), ending[0].UserID())

		ending[0].MarkTrialNoticeSent(time.Now())
		require.NoError(t, repo.Update(ctx, ending[0]))

		again, err := repo.FindTrialsEndingBefore(ctx, time.Now().Add(72*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, again)
	})
}

func TestUsageRecordRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRecordRepository(db, testRepoLogger())
	ctx := context.Background()

	t.Run("lazy creation converges on one row", func(t *testing.T) {
		first, err := repo.GetOrCreateCurrent(ctx, 1)
		require.NoError(t, err)
		assert.NotZero(t, first.ID())
		assert.Equal(t, uint64(0), first.DescriptionsGenerated())

		second, err := repo.GetOrCreateCurrent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, first.ID(), second.ID())

		period := billingperiod.Current(time.Now())
		assert.True(t, first.PeriodStart().Equal(period.Start))
		assert.True(t, first.PeriodEnd().Equal(period.End))
	})

	t.Run("increment is cumulative", func(t *testing.T) {
		rec, err := repo.GetOrCreateCurrent(ctx, 2)
		require.NoError(t, err)

		count, err := repo.IncrementUsage(ctx, rec.ID(), 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count)

		count, err = repo.IncrementUsage(ctx, rec.ID(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), count)
	})

	t.Run("increment of missing record", func(t *testing.T) {
		_, err := repo.IncrementUsage(ctx, 9999, 1)
		assert.ErrorIs(t, err, billing.ErrUsageRecordNotFound)
	})

	t.Run("get current without create", func(t *testing.T) {
		rec, err := repo.GetCurrent(ctx, 77)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("history overlap query", func(t *testing.T) {
		rec, err := repo.GetOrCreateCurrent(ctx, 3)
		require.NoError(t, err)

		history, err := repo.GetHistory(ctx, 3, rec.PeriodStart().AddDate(0, -2, 0), rec.PeriodEnd())
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, rec.ID(), history[0].ID())

		none, err := repo.GetHistory(ctx, 3, rec.PeriodStart().AddDate(0, -2, 0), rec.PeriodStart())
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
