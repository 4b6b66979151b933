package poll

import (
	"context"
	"strings"
	"time"

	"github.com/societyos/society-backend/internal/notification"
)

type CreateRequest struct {
	Question  string
	Options   []string
	ClosesAt  *time.Time
	CreatedBy string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Poll, error)
	GetByID(ctx context.Context, id string) (*Poll, error)
	List(ctx context.Context, filter Filter) ([]*Poll, int, error)

	// Vote records one vote per user per poll.
	Vote(ctx context.Context, pollID, optionID, userID string) (*Poll, error)

	// UserVote reports which option the user picked, "" if none.
	UserVote(ctx context.Context, pollID, userID string) (string, error)

	// Close stops a poll from accepting further votes.
	Close(ctx context.Context, id string) (*Poll, error)
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

func (s *service) Create(ctx context.Context, req CreateRequest) (*Poll, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	options := make([]string, 0, len(req.Options))
	seen := make(map[string]bool)
	for _, o := range req.Options {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		options = append(options, o)
	}
	if len(options) < 2 {
		return nil, ErrTooFewOptions
	}
	if req.ClosesAt != nil && !req.ClosesAt.After(time.Now()) {
		return nil, ErrClosesInPast
	}

	p := &Poll{
		Question:  question,
		ClosesAt:  req.ClosesAt,
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.Create(ctx, p, options); err != nil {
		return nil, err
	}

	s.dispatcher.PushToTopic(notification.TopicNotices, notification.Message{
		Title: "New poll",
		Body:  p.Question,
		Data:  map[string]string{"poll_id": p.ID},
	})

	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Poll, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Poll, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Vote(ctx context.Context, pollID, optionID, userID string) (*Poll, error) {
	if err := s.repo.Vote(ctx, pollID, optionID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, pollID)
}

func (s *service) UserVote(ctx context.Context, pollID, userID string) (string, error) {
	return s.repo.UserVote(ctx, pollID, userID)
}

func (s *service) Close(ctx context.Context, id string) (*Poll, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsClosed {
		return nil, ErrAlreadyClosed
	}

	closed, err := s.repo.Close(ctx, id)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrAlreadyClosed
	}
	p.IsClosed = true
	return p, nil
}
