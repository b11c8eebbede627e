package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listcraft/internal/domain/billing"
	vo "listcraft/internal/domain/billing/valueobjects"
)

func trialingSubscription(t *testing.T, id, userID uint, trialEnd time.Time, noticeSentAt *time.Time) *billing.Subscription {
	t.Helper()

	sub, err := billing.ReconstructSubscription(
		id, userID, 1,
		"cus_1", "sub_1",
		vo.StatusTrialing,
		nil, nil, &trialEnd,
		false,
		nil, noticeSentAt,
		1,
		time.Now(), time.Now(),
	)
	require.NoError(t, err)
	return sub
}

func TestSendTrialNotices(t *testing.T) {
	t.Run("notifies and stamps trials inside the window", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		notifier := &fakeNotifier{}

		soon := time.Now().UTC().Add(48 * time.Hour)
		repo.byUser[7] = trialingSubscription(t, 1, 7, soon, nil)

		uc := NewSendTrialNoticesUseCase(repo, notifier, 3, testLogger())
		require.NoError(t, uc.Execute(context.Background()))

		assert.Equal(t, []uint{7}, notifier.trialNotices)
		assert.NotNil(t, repo.byUser[7].TrialNoticeSentAt())
	})

	t.Run("skips trials outside the window", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		notifier := &fakeNotifier{}

		far := time.Now().UTC().Add(30 * 24 * time.Hour)
		repo.byUser[7] = trialingSubscription(t, 1, 7, far, nil)

		uc := NewSendTrialNoticesUseCase(repo, notifier, 3, testLogger())
		require.NoError(t, uc.Execute(context.Background()))

		assert.Empty(t, notifier.trialNotices)
	})

	t.Run("already-stamped trials are not re-notified", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		notifier := &fakeNotifier{}

		soon := time.Now().UTC().Add(24 * time.Hour)
		sentAt := time.Now().UTC().Add(-24 * time.Hour)
		repo.byUser[7] = trialingSubscription(t, 1, 7, soon, &sentAt)

		uc := NewSendTrialNoticesUseCase(repo, notifier, 3, testLogger())
		require.NoError(t, uc.Execute(context.Background()))

		assert.Empty(t, notifier.trialNotices)
	})
}
