package notification

import (
	"context"
	"strings"
)

type RegisterTokenRequest struct {
	UserID   string
	Token    string
	Platform string
}

// Service manages the device token registry.
type Service interface {
	RegisterToken(ctx context.Context, req RegisterTokenRequest) (*DeviceToken, error)
	RemoveToken(ctx context.Context, userID, token string) error
}

type service struct {
	tokens TokenRepository
}

func NewService(tokens TokenRepository) Service {
	return &service{tokens: tokens}
}

func (s *service) RegisterToken(ctx context.Context, req RegisterTokenRequest) (*DeviceToken, error) {
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform != "ios" {
		platform = "android"
	}

	t := &DeviceToken{
		UserID:   req.UserID,
		Token:    strings.TrimSpace(req.Token),
		Platform: platform,
	}

	if err := s.tokens.Register(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) RemoveToken(ctx context.Context, userID, token string) error {
	return s.tokens.Remove(ctx, userID, token)
}
