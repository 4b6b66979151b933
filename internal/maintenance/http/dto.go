package http

import (
	"time"

	"github.com/societyos/society-backend/internal/maintenance"
	"github.com/societyos/society-backend/internal/pkg/request"
	userHttp "github.com/societyos/society-backend/internal/user/http"
)

type BillResponse struct {
	ID        string           `json:"id"`
	User      userHttp.UserTag `json:"user"`
	Month     int              `json:"month"`
	Year      int              `json:"year"`
	Amount    float64          `json:"amount"`
	Status    string           `json:"status"`
	PaidAt    *time.Time       `json:"paid_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewBillResponse(b *maintenance.Bill) BillResponse {
	return BillResponse{
		ID:        b.ID,
		User:      userHttp.UserTag{ID: b.UserID, Name: b.UserName},
		Month:     b.Month,
		Year:      b.Year,
		Amount:    b.Amount,
		Status:    string(b.Status),
		PaidAt:    b.PaidAt,
		CreatedAt: b.CreatedAt,
	}
}

type GenerateBillsRequest struct {
	Month  int     `json:"month" binding:"required,min=1,max=12"`
	Year   int     `json:"year" binding:"required,min=2000,max=2200"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type GenerateBillsResponse struct {
	Month   int `json:"month"`
	Year    int `json:"year"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type ListBillsRequest struct {
	request.ListParams
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Month  int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year   int    `form:"year" binding:"omitempty,min=2000,max=2200"`
	Status string `form:"status" binding:"omitempty,oneof=due paid"`
}
