package usecases

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingusecases "listcraft/internal/application/billing/usecases"
	"listcraft/internal/domain/billing"
	"listcraft/internal/domain/listing"
	"listcraft/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeListingRepo struct {
	byID    map[uint]*listing.Listing
	nextID  uint
	updates int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{byID: make(map[uint]*listing.Listing), nextID: 1}
}

func (f *fakeListingRepo) Create(_ context.Context, l *listing.Listing) error {
	if err := l.SetID(f.nextID); err != nil {
		return err
	}
	f.nextID++
	f.byID[l.ID()] = l
	return nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id uint) (*listing.Listing, error) {
	return f.byID[id], nil
}

func (f *fakeListingRepo) ListByUser(_ context.Context, userID uint) ([]*listing.Listing, error) {
	var out []*listing.Listing
	for _, l := range f.byID {
		if l.UserID() == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) Update(_ context.Context, _ *listing.Listing) error {
	f.updates++
	return nil
}

func (f *fakeListingRepo) Delete(_ context.Context, id uint) error {
	delete(f.byID, id)
	return nil
}

type fakeQuotaGate struct {
	limit        int64
	used         uint64
	checkErr     error
	forceAllowed bool
}

func (f *fakeQuotaGate) CheckQuota(_ context.Context, _ uint) (*billingusecases.QuotaStatus, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	status := f.status()
	if f.forceAllowed {
		status.Allowed = true
	}
	return status, nil
}

func (f *fakeQuotaGate) Consume(_ context.Context, _ uint, delta uint64) (*billingusecases.QuotaStatus, error) {
	if f.used+delta > uint64(f.limit) {
		return nil, billing.ErrQuotaExceeded
	}
	f.used += delta
	return f.status(), nil
}

func (f *fakeQuotaGate) status() *billingusecases.QuotaStatus {
	remaining := f.limit - int64(f.used)
	if remaining < 0 {
		remaining = 0
	}
	return &billingusecases.QuotaStatus{
		Allowed:     remaining > 0,
		Limit:       f.limit,
		Used:        f.used,
		Remaining:   remaining,
		PercentUsed: int(f.used * 100 / uint64(f.limit)),
	}
}

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateDescription(_ context.Context, _ GenerationRequest) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type channelNotifier struct {
	warned chan int
}

func (n *channelNotifier) QuotaThresholdReached(_ context.Context, _ uint, percent int, _ uint64, _ int64) {
	n.warned <- percent
}

func newGenerateFixture(t *testing.T, gate *fakeQuotaGate, gen *fakeGenerator) (*GenerateDescriptionUseCase, *fakeListingRepo, *channelNotifier) {
	t.Helper()

	repo := newFakeListingRepo()
	l, err := listing.NewListing(1, "Sunny Craftsman", "house", 3, 2, 1800,
		"Portland, OR", []string{"hardwood floors", "fenced yard"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), l))

	notifier := &channelNotifier{warned: make(chan int, 1)}
	uc := NewGenerateDescriptionUseCase(repo, gate, gen, notifier, 10, testLogger())
	return uc, repo, notifier
}

func TestGenerateDescription(t *testing.T) {
	t.Run("generates, charges and persists", func(t *testing.T) {
		gate := &fakeQuotaGate{limit: 50}
		gen := &fakeGenerator{text: "A sunny craftsman with hardwood floors."}
		uc, repo, _ := newGenerateFixture(t, gate, gen)

		result, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.ToneFriendly,
		})
		require.NoError(t, err)

		assert.Equal(t, gen.text, result.Listing.GeneratedDescription())
		assert.Equal(t, listing.StatusGenerated, result.Listing.Status())
		assert.Equal(t, uint64(1), gate.used)
		assert.Equal(t, uint64(1), result.Quota.Used)
		assert.Equal(t, 1, repo.updates)
	})

	t.Run("generation failure charges nothing", func(t *testing.T) {
		gate := &fakeQuotaGate{limit: 50}
		gen := &fakeGenerator{err: errors.New("upstream timeout")}
		uc, repo, _ := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.ToneFriendly,
		})
		require.Error(t, err)

		assert.Equal(t, uint64(0), gate.used)
		assert.Equal(t, 0, repo.updates)
	})

	t.Run("quota pre-check rejects before generating", func(t *testing.T) {
		gate := &fakeQuotaGate{limit: 50, checkErr: billing.ErrQuotaExceeded}
		gen := &fakeGenerator{text: "unused"}
		uc, _, _ := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.ToneFriendly,
		})
		assert.ErrorIs(t, err, billing.ErrQuotaExceeded)
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("consume race loses without persisting", func(t *testing.T) {
		// Pre-check passes but another request takes the last unit before
		// Consume runs.
		gate := &fakeQuotaGate{limit: 1, used: 1, forceAllowed: true}
		gen := &fakeGenerator{text: "text"}
		uc, repo, _ := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.ToneFriendly,
		})
		assert.ErrorIs(t, err, billing.ErrQuotaExceeded)
		assert.Equal(t, 0, repo.updates)
	})

	t.Run("invalid tone", func(t *testing.T) {
		gate := &fakeQuotaGate{limit: 50}
		gen := &fakeGenerator{text: "text"}
		uc, _, _ := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.Tone("sarcastic"),
		})
		assert.ErrorIs(t, err, listing.ErrInvalidTone)
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("foreign listing is forbidden", func(t *testing.T) {
		gate := &fakeQuotaGate{limit: 50}
		gen := &fakeGenerator{text: "text"}
		uc, _, _ := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 2, ListingID: 1, Tone: listing.ToneFriendly,
		})
		assert.ErrorIs(t, err, listing.ErrListingForbidden)
	})

	t.Run("warns when crossing 90 percent", func(t *testing.T) {
		gate := &fakeQuotaGate{limit: 10, used: 8}
		gen := &fakeGenerator{text: "text"}
		uc, _, notifier := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.ToneFriendly,
		})
		require.NoError(t, err)

		select {
		case pct := <-notifier.warned:
			assert.Equal(t, 90, pct)
		case <-time.After(time.Second):
			t.Fatal("expected a quota warning")
		}
	})

	t.Run("80 percent band warns on usage count multiples", func(t *testing.T) {
		// Large quota: the percentage barely moves per generation, so the
		// throttle keys on the count reaching a multiple of the step.
		gate := &fakeQuotaGate{limit: 1000, used: 829}
		gen := &fakeGenerator{text: "text"}
		uc, _, notifier := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.ToneFriendly,
		})
		require.NoError(t, err)

		select {
		case pct := <-notifier.warned:
			assert.Equal(t, 83, pct)
		case <-time.After(time.Second):
			t.Fatal("expected a quota warning")
		}
	})

	t.Run("80 percent band stays quiet off the step", func(t *testing.T) {
		gate := &fakeQuotaGate{limit: 1000, used: 826}
		gen := &fakeGenerator{text: "text"}
		uc, _, notifier := newGenerateFixture(t, gate, gen)

		_, err := uc.Execute(context.Background(), GenerateDescriptionCommand{
			UserID: 1, ListingID: 1, Tone: listing.ToneFriendly,
		})
		require.NoError(t, err)

		select {
		case <-notifier.warned:
			t.Fatal("no warning expected at 827 of 1000")
		case <-time.After(100 * time.Millisecond):
		}
	})
}
