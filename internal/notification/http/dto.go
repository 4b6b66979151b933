package http

import (
	"time"

	"github.com/societyos/society-backend/internal/notification"
)

type RegisterTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"omitempty,oneof=android ios"`
}

type RemoveTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type DeviceTokenResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

func NewDeviceTokenResponse(t *notification.DeviceToken) DeviceTokenResponse {
	return DeviceTokenResponse{
		ID:        t.ID,
		Token:     t.Token,
		Platform:  t.Platform,
		CreatedAt: t.CreatedAt,
	}
}
