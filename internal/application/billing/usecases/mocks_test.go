package usecases

import (
	"context"
	"io"
	"log/slog"
	"time"

	"listcraft/internal/domain/billing"
	"listcraft/internal/shared/billingperiod"
	"listcraft/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSubscriptionRepo struct {
	byUser map[uint]*billing.Subscription
	nextID uint
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byUser: make(map[uint]*billing.Subscription), nextID: 1}
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub *billing.Subscription) error {
	if err := sub.SetID(f.nextID); err != nil {
		return err
	}
	f.nextID++
	f.byUser[sub.UserID()] = sub
	return nil
}

func (f *fakeSubscriptionRepo) GetByUserID(_ context.Context, userID uint) (*billing.Subscription, error) {
	return f.byUser[userID], nil
}

func (f *fakeSubscriptionRepo) GetByProviderSubscriptionID(_ context.Context, id string) (*billing.Subscription, error) {
	for _, sub := range f.byUser {
		if sub.ProviderSubscriptionID() == id {
			return sub, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) GetByUserIDForUpdate(ctx context.Context, userID uint) (*billing.Subscription, error) {
	return f.GetByUserID(ctx, userID)
}

func (f *fakeSubscriptionRepo) Update(_ context.Context, _ *billing.Subscription) error {
	return nil
}

func (f *fakeSubscriptionRepo) FindTrialsEndingBefore(_ context.Context, deadline time.Time) ([]*billing.Subscription, error) {
	var out []*billing.Subscription
	for _, sub := range f.byUser {
		if sub.TrialEnd() != nil && sub.TrialEnd().Before(deadline) && sub.TrialNoticeSentAt() == nil {
			out = append(out, sub)
		}
	}
	return out, nil
}

type fakePlanRepo struct {
	byID map[uint]*billing.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{byID: make(map[uint]*billing.Plan)}
}

func (f *fakePlanRepo) add(plan *billing.Plan) {
	f.byID[plan.ID()] = plan
}

func (f *fakePlanRepo) Create(_ context.Context, plan *billing.Plan) error {
	f.byID[plan.ID()] = plan
	return nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, id uint) (*billing.Plan, error) {
	return f.byID[id], nil
}

func (f *fakePlanRepo) GetBySlug(_ context.Context, slug string) (*billing.Plan, error) {
	for _, p := range f.byID {
		if p.Slug() == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) GetByProviderPriceID(_ context.Context, priceID string) (*billing.Plan, error) {
	for _, p := range f.byID {
		if p.ProviderPriceID() == priceID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) GetActivePlans(_ context.Context) ([]*billing.Plan, error) {
	var out []*billing.Plan
	for _, p := range f.byID {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) Update(_ context.Context, _ *billing.Plan) error {
	return nil
}

func (f *fakePlanRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	p, _ := f.GetBySlug(context.Background(), slug)
	return p != nil, nil
}

type fakeUsageRepo struct {
	byUser map[uint]*billing.UsageRecord
	nextID uint
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{byUser: make(map[uint]*billing.UsageRecord), nextID: 1}
}

func (f *fakeUsageRepo) GetOrCreateCurrent(_ context.Context, userID uint) (*billing.UsageRecord, error) {
	if rec, ok := f.byUser[userID]; ok && rec.IsCurrent() {
		return rec, nil
	}
	period := billingperiod.Current(time.Now())
	rec, err := billing.NewUsageRecord(userID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	if err := rec.SetID(f.nextID); err != nil {
		return nil, err
	}
	f.nextID++
	f.byUser[userID] = rec
	return rec, nil
}

func (f *fakeUsageRepo) GetCurrent(_ context.Context, userID uint) (*billing.UsageRecord, error) {
	if rec, ok := f.byUser[userID]; ok && rec.IsCurrent() {
		return rec, nil
	}
	return nil, nil
}

func (f *fakeUsageRepo) GetCurrentForUpdate(ctx context.Context, userID uint) (*billing.UsageRecord, error) {
	return f.GetOrCreateCurrent(ctx, userID)
}

func (f *fakeUsageRepo) IncrementUsage(_ context.Context, recordID uint, delta uint64) (uint64, error) {
	for _, rec := range f.byUser {
		if rec.ID() == recordID {
			rec.Increment(delta)
			return rec.DescriptionsGenerated(), nil
		}
	}
	return 0, billing.ErrUsageRecordNotFound
}

func (f *fakeUsageRepo) GetHistory(_ context.Context, userID uint, from, to time.Time) ([]*billing.UsageRecord, error) {
	var out []*billing.UsageRecord
	if rec, ok := f.byUser[userID]; ok {
		if rec.PeriodStart().Before(to) && rec.PeriodEnd().After(from) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	confirmed     []uint
	canceled      []uint
	paymentFailed []uint
	thresholds    []int
	trialNotices  []uint
}

func (f *fakeNotifier) SubscriptionConfirmed(_ context.Context, userID uint, _ string) {
	f.confirmed = append(f.confirmed, userID)
}

func (f *fakeNotifier) SubscriptionCanceled(_ context.Context, userID uint) {
	f.canceled = append(f.canceled, userID)
}

func (f *fakeNotifier) PaymentFailed(_ context.Context, userID uint) {
	f.paymentFailed = append(f.paymentFailed, userID)
}

func (f *fakeNotifier) QuotaThresholdReached(_ context.Context, _ uint, percent int, _ uint64, _ int64) {
	f.thresholds = append(f.thresholds, percent)
}

func (f *fakeNotifier) TrialEndingSoon(_ context.Context, userID uint, _ time.Time) {
	f.trialNotices = append(f.trialNotices, userID)
}
