package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/societyos/society-backend/internal/notification"
)

type Service interface {
	// GeneratePeriod creates a bill for every active resident for the
	// given month. Residents already billed for the period are skipped,
	// so re-running the same period is safe.
	GeneratePeriod(ctx context.Context, month, year int, amount float64) (*GenerateResult, error)

	GetByID(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context, filter Filter) ([]*Bill, int, error)

	// Pay marks a due bill as paid. The bill's owner or an admin may pay.
	Pay(ctx context.Context, id string, callerUserID string, callerIsAdmin bool) (*Bill, error)
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

func (s *service) GeneratePeriod(ctx context.Context, month, year int, amount float64) (*GenerateResult, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2200 {
		return nil, ErrInvalidPeriod
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	residents, err := s.repo.ListActiveResidents(ctx)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Month: month, Year: year}

	for _, res := range residents {
		b := &Bill{
			UserID: res.ID,
			Month:  month,
			Year:   year,
			Amount: amount,
			Status: StatusDue,
		}
		if err := s.repo.Create(ctx, b); err != nil {
			if err == ErrDuplicateBill {
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Created++

		s.dispatcher.PushToUsers([]string{res.ID}, notification.Message{
			Title: "Maintenance bill generated",
			Body:  fmt.Sprintf("Your maintenance bill of %.2f for %02d/%d is due", amount, month, year),
			Data:  map[string]string{"bill_id": b.ID},
		})
	}

	return result, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Bill, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Bill, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Pay(ctx context.Context, id string, callerUserID string, callerIsAdmin bool) (*Bill, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != callerUserID && !callerIsAdmin {
		return nil, ErrPermissionDenied
	}
	if b.Status == StatusPaid {
		return nil, ErrAlreadyPaid
	}

	updated, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyPaid
	}

	now := time.Now()
	b.Status = StatusPaid
	b.PaidAt = &now

	s.dispatcher.PushToTopic(notification.TopicAdmins, notification.Message{
		Title: "Maintenance bill paid",
		Body:  fmt.Sprintf("%s paid %.2f for %02d/%d", b.UserName, b.Amount, b.Month, b.Year),
		Data:  map[string]string{"bill_id": b.ID},
	})

	return b, nil
}
