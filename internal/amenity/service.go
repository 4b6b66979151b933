package amenity

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name             string
	Description      string
	Capacity         int
	OpenMinute       int
	CloseMinute      int
	RequiresApproval bool
}

type UpdateRequest struct {
	Name             *string
	Description      *string
	Capacity         *int
	OpenMinute       *int
	CloseMinute      *int
	RequiresApproval *bool
	IsActive         *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Amenity, error)
	GetByID(ctx context.Context, id string) (*Amenity, error)
	List(ctx context.Context, filter Filter) ([]*Amenity, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Amenity, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Amenity, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if req.OpenMinute >= req.CloseMinute {
		return nil, ErrInvalidHours
	}

	a := &Amenity{
		Name:             req.Name,
		Capacity:         req.Capacity,
		OpenMinute:       req.OpenMinute,
		CloseMinute:      req.CloseMinute,
		RequiresApproval: req.RequiresApproval,
		IsActive:         true,
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		a.Description = &d
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Amenity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Amenity, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Amenity, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		a.Name = *req.Name
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			a.Description = &d
		} else {
			a.Description = nil
		}
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrInvalidCapacity
		}
		a.Capacity = *req.Capacity
	}
	if req.OpenMinute != nil {
		a.OpenMinute = *req.OpenMinute
	}
	if req.CloseMinute != nil {
		a.CloseMinute = *req.CloseMinute
	}
	if a.OpenMinute >= a.CloseMinute {
		return nil, ErrInvalidHours
	}
	if req.RequiresApproval != nil {
		a.RequiresApproval = *req.RequiresApproval
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Deactivate soft-deletes the amenity. Existing bookings are untouched.
func (s *service) Deactivate(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.IsActive = false
	return s.repo.Update(ctx, a)
}
