package maintenance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/societyos/society-backend/internal/notification"
)

type billKey struct {
	userID string
	month  int
	year   int
}

type fakeRepo struct {
	residents []Resident
	bills     map[string]*Bill
	byPeriod  map[billKey]string
	seq       int
}

func newFakeRepo(residents ...Resident) *fakeRepo {
	return &fakeRepo{
		residents: residents,
		bills:     make(map[string]*Bill),
		byPeriod:  make(map[billKey]string),
	}
}

func (r *fakeRepo) Create(ctx context.Context, b *Bill) error {
	key := billKey{userID: b.UserID, month: b.Month, year: b.Year}
	if _, exists := r.byPeriod[key]; exists {
		return ErrDuplicateBill
	}

	r.seq++
	b.ID = fmt.Sprintf("bill-%d", r.seq)
	b.CreatedAt = time.Now()
	clone := *b
	r.bills[b.ID] = &clone
	r.byPeriod[key] = b.ID
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Bill, int, error) {
	var out []*Bill
	for _, b := range r.bills {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) MarkPaid(ctx context.Context, id string) (bool, error) {
	b, ok := r.bills[id]
	if !ok || b.Status != StatusDue {
		return false, nil
	}
	now := time.Now()
	b.Status = StatusPaid
	b.PaidAt = &now
	return true, nil
}

func (r *fakeRepo) ListActiveResidents(ctx context.Context) ([]Resident, error) {
	return r.residents, nil
}

type fakePusher struct {
	userPushes  [][]string
	topicPushes []string
}

func (p *fakePusher) PushToUsers(userIDs []string, msg notification.Message) {
	p.userPushes = append(p.userPushes, userIDs)
}

func (p *fakePusher) PushToTopic(topic string, msg notification.Message) {
	p.topicPushes = append(p.topicPushes, topic)
}

func TestGeneratePeriod(t *testing.T) {
	ctx := context.Background()

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &fakePusher{})

		_, err := svc.GeneratePeriod(ctx, 13, 2026, 500)
		assert.ErrorIs(t, err, ErrInvalidPeriod)

		_, err = svc.GeneratePeriod(ctx, 0, 2026, 500)
		assert.ErrorIs(t, err, ErrInvalidPeriod)

		_, err = svc.GeneratePeriod(ctx, 9, 2026, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Bills Every Resident Once", func(t *testing.T) {
		repo := newFakeRepo(
			Resident{ID: "u1", Name: "Alice"},
			Resident{ID: "u2", Name: "Bob"},
			Resident{ID: "u3", Name: "Carol"},
		)
		pusher := &fakePusher{}
		svc := NewService(repo, pusher)

		result, err := svc.GeneratePeriod(ctx, 9, 2026, 1500)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Created)
		assert.Equal(t, 0, result.Skipped)
		assert.Len(t, pusher.userPushes, 3)
	})

	t.Run("Rerun Is Idempotent", func(t *testing.T) {
		repo := newFakeRepo(
			Resident{ID: "u1", Name: "Alice"},
			Resident{ID: "u2", Name: "Bob"},
		)
		pusher := &fakePusher{}
		svc := NewService(repo, pusher)

		first, err := svc.GeneratePeriod(ctx, 9, 2026, 1500)
		require.NoError(t, err)
		require.Equal(t, 2, first.Created)

		second, err := svc.GeneratePeriod(ctx, 9, 2026, 1500)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Created)
		assert.Equal(t, 2, second.Skipped)

		// Nobody gets notified twice.
		assert.Len(t, pusher.userPushes, 2)
	})

	t.Run("New Resident Gets Backfilled", func(t *testing.T) {
		repo := newFakeRepo(Resident{ID: "u1", Name: "Alice"})
		svc := NewService(repo, &fakePusher{})

		_, err := svc.GeneratePeriod(ctx, 9, 2026, 1500)
		require.NoError(t, err)

		// A resident moves in mid-month, then the period is regenerated.
		repo.residents = append(repo.residents, Resident{ID: "u2", Name: "Bob"})

		result, err := svc.GeneratePeriod(ctx, 9, 2026, 1500)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("Different Periods Are Independent", func(t *testing.T) {
		repo := newFakeRepo(Resident{ID: "u1", Name: "Alice"})
		svc := NewService(repo, &fakePusher{})

		_, err := svc.GeneratePeriod(ctx, 9, 2026, 1500)
		require.NoError(t, err)

		result, err := svc.GeneratePeriod(ctx, 10, 2026, 1500)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
	})
}

func TestPay(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (Service, *fakePusher, string) {
		repo := newFakeRepo(Resident{ID: "u1", Name: "Alice"})
		pusher := &fakePusher{}
		svc := NewService(repo, pusher)

		result, err := svc.GeneratePeriod(ctx, 9, 2026, 1500)
		require.NoError(t, err)
		require.Equal(t, 1, result.Created)

		bills, _, err := svc.List(ctx, Filter{UserID: "u1"})
		require.NoError(t, err)
		require.Len(t, bills, 1)
		return svc, pusher, bills[0].ID
	}

	t.Run("Owner Pays", func(t *testing.T) {
		svc, pusher, billID := setup(t)

		b, err := svc.Pay(ctx, billID, "u1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, b.Status)
		require.NotNil(t, b.PaidAt)
		assert.Contains(t, pusher.topicPushes, notification.TopicAdmins)
	})

	t.Run("Admin Pays On Behalf", func(t *testing.T) {
		svc, _, billID := setup(t)

		b, err := svc.Pay(ctx, billID, "admin", true)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, b.Status)
	})

	t.Run("Stranger Cannot Pay", func(t *testing.T) {
		svc, _, billID := setup(t)

		_, err := svc.Pay(ctx, billID, "u2", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("Pay Twice Fails", func(t *testing.T) {
		svc, _, billID := setup(t)

		_, err := svc.Pay(ctx, billID, "u1", false)
		require.NoError(t, err)

		_, err = svc.Pay(ctx, billID, "u1", false)
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("Unknown Bill", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, err := svc.Pay(ctx, "no-such-bill", "u1", false)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
