package http

import (
	"time"

	"github.com/societyos/society-backend/internal/pkg/request"
	"github.com/societyos/society-backend/internal/user"
)

// UserTag is the minimal user reference embedded in other responses.
type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	FlatNumber  *string    `json:"flat_number"`
	Phone       *string    `json:"phone"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		FlatNumber:  u.FlatNumber,
		Phone:       u.Phone,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type ListUsersRequest struct {
	request.ListParams
	Email    string `form:"email"`
	Role     string `form:"role" binding:"omitempty,oneof=admin resident staff"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=created_at email role"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	FlatNumber  *string `json:"flat_number"`
	Phone       *string `json:"phone"`
}

type AdminUpdateUserRequest struct {
	Role     *string `json:"role" binding:"omitempty,oneof=admin resident staff"`
	IsActive *bool   `json:"is_active"`
}
