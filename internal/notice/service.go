package notice

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/societyos/society-backend/internal/notification"
)

type CreateRequest struct {
	Title     string
	Body      string
	Category  string
	CreatedBy string
}

type UpdateRequest struct {
	Title    *string
	Body     *string
	Category *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notice, error)
	GetByID(ctx context.Context, id string) (*Notice, error)
	List(ctx context.Context, filter Filter) ([]*Notice, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Notice, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	dispatcher notification.Pusher
}

func NewService(repo Repository, dispatcher notification.Pusher) Service {
	return &service{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Notice, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	n := &Notice{
		Title:     title,
		Body:      req.Body,
		Category:  req.Category,
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.dispatcher.PushToTopic(notification.TopicNotices, notification.Message{
		Title: n.Title,
		Body:  summary(n.Body),
		Data:  map[string]string{"notice_id": n.ID, "category": n.Category},
	})

	return n, nil
}

// summary trims the notice body down to push notification length,
// cutting on a rune boundary so multi-byte text stays valid UTF-8.
func summary(body string) string {
	const maxLen = 160
	body = strings.TrimSpace(body)
	if len(body) <= maxLen {
		return body
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}

func (s *service) GetByID(ctx context.Context, id string) (*Notice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Notice, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Notice, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		n.Title = title
	}
	if req.Body != nil {
		n.Body = *req.Body
	}
	if req.Category != nil {
		if !ValidCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		n.Category = *req.Category
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
