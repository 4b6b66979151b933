package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/societyos/society-backend/internal/amenity"
	"github.com/societyos/society-backend/internal/notification"
)

// fakeRepo mirrors the admission semantics of the pgx repository in
// memory: capacity check and insert are one atomic step.
type fakeRepo struct {
	capacities map[string]int
	bookings   map[string]*Booking
	seq        int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		capacities: make(map[string]int),
		bookings:   make(map[string]*Booking),
	}
}

func (r *fakeRepo) CreateAdmitted(ctx context.Context, b *Booking) error {
	capacity, ok := r.capacities[b.AmenityID]
	if !ok {
		return ErrAmenityNotFound
	}

	overlapping := 0
	for _, other := range r.bookings {
		if other.AmenityID != b.AmenityID || !other.Date.Equal(b.Date) {
			continue
		}
		if other.Status.Terminal() {
			continue
		}
		if other.Overlaps(b.StartMinute, b.EndMinute) {
			overlapping++
		}
	}
	if overlapping >= capacity {
		return ErrCapacityExceeded
	}

	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListActiveForAmenityDate(ctx context.Context, amenityID string, date time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.AmenityID == amenityID && b.Date.Equal(date) && !b.Status.Terminal() {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatusFrom(ctx context.Context, id string, from []Status, to Status) (bool, error) {
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			b.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

// fakeAmenities serves a fixed set of amenities.
type fakeAmenities struct {
	amenities map[string]*amenity.Amenity
}

func (f *fakeAmenities) GetByID(ctx context.Context, id string) (*amenity.Amenity, error) {
	a, ok := f.amenities[id]
	if !ok {
		return nil, amenity.ErrNotFound
	}
	return a, nil
}

func (f *fakeAmenities) Create(ctx context.Context, req amenity.CreateRequest) (*amenity.Amenity, error) {
	return nil, nil
}

func (f *fakeAmenities) List(ctx context.Context, filter amenity.Filter) ([]*amenity.Amenity, int, error) {
	return nil, 0, nil
}

func (f *fakeAmenities) Update(ctx context.Context, id string, req amenity.UpdateRequest) (*amenity.Amenity, error) {
	return nil, nil
}

func (f *fakeAmenities) Deactivate(ctx context.Context, id string) error {
	return nil
}

// fakePusher records pushes for assertions.
type fakePusher struct {
	userPushes  [][]string
	topicPushes []string
	messages    []notification.Message
}

func (p *fakePusher) PushToUsers(userIDs []string, msg notification.Message) {
	p.userPushes = append(p.userPushes, userIDs)
	p.messages = append(p.messages, msg)
}

func (p *fakePusher) PushToTopic(topic string, msg notification.Message) {
	p.topicPushes = append(p.topicPushes, topic)
	p.messages = append(p.messages, msg)
}

func newTestService() (Service, *fakeRepo, *fakePusher) {
	repo := newFakeRepo()
	repo.capacities["gym"] = 2
	repo.capacities["hall"] = 1

	amenities := &fakeAmenities{amenities: map[string]*amenity.Amenity{
		"gym": {
			ID:          "gym",
			Name:        "Gym",
			Capacity:    2,
			OpenMinute:  6 * 60,
			CloseMinute: 22 * 60,
			IsActive:    true,
		},
		"hall": {
			ID:               "hall",
			Name:             "Community Hall",
			Capacity:         1,
			OpenMinute:       9 * 60,
			CloseMinute:      21 * 60,
			RequiresApproval: true,
			IsActive:         true,
		},
		"old-pool": {
			ID:          "old-pool",
			Name:        "Old Pool",
			Capacity:    5,
			OpenMinute:  6 * 60,
			CloseMinute: 20 * 60,
			IsActive:    false,
		},
	}}

	pusher := &fakePusher{}
	return NewService(repo, amenities, pusher), repo, pusher
}

func testDate() time.Time {
	return time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	base := CreateRequest{
		UserID:      "u1",
		AmenityID:   "gym",
		Date:        testDate(),
		StartMinute: 10 * 60,
		EndMinute:   11 * 60,
	}

	t.Run("Start After End", func(t *testing.T) {
		req := base
		req.StartMinute, req.EndMinute = req.EndMinute, req.StartMinute
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("Zero Length Slot", func(t *testing.T) {
		req := base
		req.EndMinute = req.StartMinute
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("Unknown Amenity", func(t *testing.T) {
		req := base
		req.AmenityID = "no-such-amenity"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrAmenityNotFound)
	})

	t.Run("Inactive Amenity", func(t *testing.T) {
		req := base
		req.AmenityID = "old-pool"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrAmenityInactive)
	})

	t.Run("Before Opening", func(t *testing.T) {
		req := base
		req.StartMinute = 5 * 60
		req.EndMinute = 7 * 60
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrOutOfHours)
	})

	t.Run("After Closing", func(t *testing.T) {
		req := base
		req.StartMinute = 21 * 60
		req.EndMinute = 23 * 60
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrOutOfHours)
	})
}

func TestCreateCapacity(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	req := func(userID string, start, end int) CreateRequest {
		return CreateRequest{
			UserID:      userID,
			AmenityID:   "gym",
			Date:        testDate(),
			StartMinute: start,
			EndMinute:   end,
		}
	}

	// Gym capacity is 2: two overlapping bookings fit, a third does not.
	_, err := svc.Create(ctx, req("u1", 10*60, 12*60))
	require.NoError(t, err)

	_, err = svc.Create(ctx, req("u2", 11*60, 13*60))
	require.NoError(t, err)

	_, err = svc.Create(ctx, req("u3", 11*60, 12*60))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// Slots are half-open: a booking starting exactly when another ends
	// does not overlap it.
	_, err = svc.Create(ctx, req("u3", 12*60, 13*60))
	assert.NoError(t, err)

	// A different day is unaffected.
	other := req("u3", 11*60, 12*60)
	other.Date = testDate().AddDate(0, 0, 1)
	_, err = svc.Create(ctx, other)
	assert.NoError(t, err)
}

func TestCreateApprovalFlow(t *testing.T) {
	svc, _, pusher := newTestService()
	ctx := context.Background()

	t.Run("Resident Booking Needs Approval", func(t *testing.T) {
		b, err := svc.Create(ctx, CreateRequest{
			UserID:      "u1",
			AmenityID:   "hall",
			Date:        testDate(),
			StartMinute: 10 * 60,
			EndMinute:   12 * 60,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status)
		require.NotEmpty(t, pusher.topicPushes)
		assert.Equal(t, notification.TopicAdmins, pusher.topicPushes[len(pusher.topicPushes)-1])
	})

	t.Run("Admin Booking Skips Approval", func(t *testing.T) {
		b, err := svc.Create(ctx, CreateRequest{
			UserID:         "admin",
			AmenityID:      "hall",
			Date:           testDate(),
			StartMinute:    13 * 60,
			EndMinute:      14 * 60,
			CreatorIsAdmin: true,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, b.Status)
	})

	t.Run("No Approval Required", func(t *testing.T) {
		b, err := svc.Create(ctx, CreateRequest{
			UserID:      "u1",
			AmenityID:   "gym",
			Date:        testDate(),
			StartMinute: 10 * 60,
			EndMinute:   11 * 60,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, b.Status)
	})
}

func TestDecide(t *testing.T) {
	ctx := context.Background()

	// Each subtest books the hall (capacity 1) for the same slot, so
	// every one starts from a fresh service.
	create := func(t *testing.T, svc Service) *Booking {
		b, err := svc.Create(ctx, CreateRequest{
			UserID:      "u1",
			AmenityID:   "hall",
			Date:        testDate(),
			StartMinute: 10 * 60,
			EndMinute:   11 * 60,
		})
		require.NoError(t, err)
		require.Equal(t, StatusPending, b.Status)
		return b
	}

	t.Run("Approve", func(t *testing.T) {
		svc, _, pusher := newTestService()
		b := create(t, svc)
		decided, err := svc.Decide(ctx, b.ID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, decided.Status)

		// The owner gets notified.
		require.NotEmpty(t, pusher.userPushes)
		assert.Equal(t, []string{"u1"}, pusher.userPushes[len(pusher.userPushes)-1])
	})

	t.Run("Reject", func(t *testing.T) {
		svc, _, _ := newTestService()
		b := create(t, svc)
		decided, err := svc.Decide(ctx, b.ID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, decided.Status)
	})

	t.Run("Decide Twice Fails", func(t *testing.T) {
		svc, _, _ := newTestService()
		b := create(t, svc)
		_, err := svc.Decide(ctx, b.ID, false)
		require.NoError(t, err)

		_, err = svc.Decide(ctx, b.ID, true)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("Rejected Slot Frees Capacity", func(t *testing.T) {
		svc, _, _ := newTestService()
		b := create(t, svc)
		_, err := svc.Decide(ctx, b.ID, false)
		require.NoError(t, err)

		// The hall is free again for the same slot.
		create(t, svc)
	})

	t.Run("Confirmed Booking Cannot Be Decided", func(t *testing.T) {
		svc, _, _ := newTestService()
		b, err := svc.Create(ctx, CreateRequest{
			UserID:         "admin",
			AmenityID:      "gym",
			Date:           testDate(),
			StartMinute:    14 * 60,
			EndMinute:      15 * 60,
			CreatorIsAdmin: true,
		})
		require.NoError(t, err)
		require.Equal(t, StatusConfirmed, b.Status)

		_, err = svc.Decide(ctx, b.ID, true)
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestCancel(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateRequest{
		UserID:      "u1",
		AmenityID:   "gym",
		Date:        testDate(),
		StartMinute: 10 * 60,
		EndMinute:   11 * 60,
	})
	require.NoError(t, err)

	t.Run("Only Owner May Cancel", func(t *testing.T) {
		_, err := svc.Cancel(ctx, b.ID, "someone-else")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("Owner Cancels", func(t *testing.T) {
		cancelled, err := svc.Cancel(ctx, b.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)
	})

	t.Run("Cancel Twice Fails", func(t *testing.T) {
		_, err := svc.Cancel(ctx, b.ID, "u1")
		assert.ErrorIs(t, err, ErrAlreadyTerminal)
	})

	t.Run("Cancelled Slot Frees Capacity", func(t *testing.T) {
		// Hall capacity is 1.
		first, err := svc.Create(ctx, CreateRequest{
			UserID:         "u1",
			AmenityID:      "hall",
			Date:           testDate(),
			StartMinute:    10 * 60,
			EndMinute:      12 * 60,
			CreatorIsAdmin: true,
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			UserID:         "u2",
			AmenityID:      "hall",
			Date:           testDate(),
			StartMinute:    10 * 60,
			EndMinute:      12 * 60,
			CreatorIsAdmin: true,
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)

		_, err = svc.Cancel(ctx, first.ID, "u1")
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			UserID:         "u2",
			AmenityID:      "hall",
			Date:           testDate(),
			StartMinute:    10 * 60,
			EndMinute:      12 * 60,
			CreatorIsAdmin: true,
		})
		assert.NoError(t, err)
	})
}

func TestListForAmenityDate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{
		UserID:      "u1",
		AmenityID:   "gym",
		Date:        testDate(),
		StartMinute: 10 * 60,
		EndMinute:   11 * 60,
	})
	require.NoError(t, err)

	t.Run("Unknown Amenity", func(t *testing.T) {
		_, err := svc.ListForAmenityDate(ctx, "no-such-amenity", testDate())
		assert.ErrorIs(t, err, ErrAmenityNotFound)
	})

	t.Run("Lists Active Bookings", func(t *testing.T) {
		bookings, err := svc.ListForAmenityDate(ctx, "gym", testDate())
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("Empty Day", func(t *testing.T) {
		bookings, err := svc.ListForAmenityDate(ctx, "gym", testDate().AddDate(0, 0, 5))
		require.NoError(t, err)
		assert.Empty(t, bookings)
	})
}
