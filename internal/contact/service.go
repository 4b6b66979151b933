package contact

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name     string
	Phone    string
	Category string
}

type UpdateRequest struct {
	Name     *string
	Phone    *string
	Category *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Contact, error)
	GetByID(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, filter Filter) ([]*Contact, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Contact, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Contact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	c := &Contact{
		Name:     name,
		Phone:    phone,
		Category: req.Category,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Contact, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		c.Name = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return nil, ErrPhoneRequired
		}
		c.Phone = phone
	}
	if req.Category != nil {
		c.Category = *req.Category
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
