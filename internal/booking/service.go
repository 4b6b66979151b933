package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/societyos/society-backend/internal/amenity"
	"github.com/societyos/society-backend/internal/notification"
	"github.com/societyos/society-backend/internal/pkg/clock"
)

type CreateRequest struct {
	UserID      string
	AmenityID   string
	Date        time.Time
	StartMinute int
	EndMinute   int

	// CreatorIsAdmin skips the approval step even when the amenity
	// requires it.
	CreatorIsAdmin bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// Decide confirms or rejects a pending booking. Admin only;
	// the handler enforces the role, the service enforces the lifecycle.
	Decide(ctx context.Context, id string, approve bool) (*Booking, error)

	// Cancel moves a pending or confirmed booking to cancelled.
	// Only the booking's owner may cancel.
	Cancel(ctx context.Context, id string, callerUserID string) (*Booking, error)

	// ListForAmenityDate returns the capacity-relevant bookings
	// (pending and confirmed) of one amenity on one day.
	ListForAmenityDate(ctx context.Context, amenityID string, date time.Time) ([]*Booking, error)
}

type service struct {
	repo       Repository
	amenities  amenity.Service
	dispatcher notification.Pusher
}

func NewService(repo Repository, amenities amenity.Service, dispatcher notification.Pusher) Service {
	return &service{
		repo:       repo,
		amenities:  amenities,
		dispatcher: dispatcher,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.StartMinute >= req.EndMinute {
		return nil, ErrInvalidTimeRange
	}

	a, err := s.amenities.GetByID(ctx, req.AmenityID)
	if err != nil {
		if errors.Is(err, amenity.ErrNotFound) {
			return nil, ErrAmenityNotFound
		}
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrAmenityInactive
	}

	// The slot must lie within the amenity's operating hours.
	if req.StartMinute < a.OpenMinute || req.EndMinute > a.CloseMinute {
		return nil, ErrOutOfHours
	}

	status := StatusConfirmed
	if a.RequiresApproval && !req.CreatorIsAdmin {
		status = StatusPending
	}

	b := &Booking{
		UserID:      req.UserID,
		AmenityID:   req.AmenityID,
		AmenityName: a.Name,
		Date:        req.Date,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Status:      status,
	}

	// CreateAdmitted performs the capacity check and the insert in a
	// single transaction, serialized per amenity by a row lock, so two
	// concurrent requests cannot both pass the check.
	if err := s.repo.CreateAdmitted(ctx, b); err != nil {
		return nil, err
	}

	if b.Status == StatusPending {
		s.dispatcher.PushToTopic(notification.TopicAdmins, notification.Message{
			Title: "New booking request",
			Body: fmt.Sprintf("%s on %s %s-%s awaits approval",
				b.AmenityName, b.Date.Format("2006-01-02"),
				clock.FormatHHMM(b.StartMinute), clock.FormatHHMM(b.EndMinute)),
			Data: map[string]string{"booking_id": b.ID},
		})
	}

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Decide(ctx context.Context, id string, approve bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrNotPending
	}

	to := StatusConfirmed
	if !approve {
		to = StatusRejected
	}

	// Conditional update: a concurrent decision loses the race cleanly.
	updated, err := s.repo.UpdateStatusFrom(ctx, id, []Status{StatusPending}, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotPending
	}
	b.Status = to

	title := "Booking confirmed"
	if to == StatusRejected {
		title = "Booking rejected"
	}
	s.dispatcher.PushToUsers([]string{b.UserID}, notification.Message{
		Title: title,
		Body: fmt.Sprintf("%s on %s %s-%s",
			b.AmenityName, b.Date.Format("2006-01-02"),
			clock.FormatHHMM(b.StartMinute), clock.FormatHHMM(b.EndMinute)),
		Data: map[string]string{"booking_id": b.ID},
	})

	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, callerUserID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != callerUserID {
		return nil, ErrPermissionDenied
	}
	if b.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	updated, err := s.repo.UpdateStatusFrom(ctx, id, []Status{StatusPending, StatusConfirmed}, StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyTerminal
	}
	b.Status = StatusCancelled

	s.dispatcher.PushToTopic(notification.TopicAdmins, notification.Message{
		Title: "Booking cancelled",
		Body: fmt.Sprintf("%s on %s %s-%s was cancelled",
			b.AmenityName, b.Date.Format("2006-01-02"),
			clock.FormatHHMM(b.StartMinute), clock.FormatHHMM(b.EndMinute)),
		Data: map[string]string{"booking_id": b.ID},
	})

	return b, nil
}

func (s *service) ListForAmenityDate(ctx context.Context, amenityID string, date time.Time) ([]*Booking, error) {
	if _, err := s.amenities.GetByID(ctx, amenityID); err != nil {
		if errors.Is(err, amenity.ErrNotFound) {
			return nil, ErrAmenityNotFound
		}
		return nil, err
	}
	return s.repo.ListActiveForAmenityDate(ctx, amenityID, date)
}
