package http

import (
	"time"

	"github.com/societyos/society-backend/internal/notice"
	"github.com/societyos/society-backend/internal/pkg/request"
	userHttp "github.com/societyos/society-backend/internal/user/http"
)

type NoticeResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Category  string           `json:"category"`
	CreatedBy userHttp.UserTag `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewNoticeResponse(n *notice.Notice) NoticeResponse {
	return NoticeResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Category:  n.Category,
		CreatedBy: userHttp.UserTag{ID: n.CreatedBy, Name: n.CreatedByName},
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type CreateNoticeRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Body     string `json:"body" binding:"max=8000"`
	Category string `json:"category" binding:"required,oneof=general maintenance event emergency"`
}

type UpdateNoticeRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Body     *string `json:"body" binding:"omitempty,max=8000"`
	Category *string `json:"category" binding:"omitempty,oneof=general maintenance event emergency"`
}

type ListNoticesRequest struct {
	request.ListParams
	Category string `form:"category" binding:"omitempty,oneof=general maintenance event emergency"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
}
