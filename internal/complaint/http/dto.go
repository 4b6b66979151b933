package http

import (
	"time"

	"github.com/societyos/society-backend/internal/complaint"
	"github.com/societyos/society-backend/internal/pkg/request"
	userHttp "github.com/societyos/society-backend/internal/user/http"
)

type ComplaintResponse struct {
	ID          string           `json:"id"`
	User        userHttp.UserTag `json:"user"`
	Category    string           `json:"category"`
	Subject     string           `json:"subject"`
	Description string           `json:"description"`
	Status      string           `json:"status"`

	HasPhoto     bool `json:"has_photo"`
	HasThumbnail bool `json:"has_thumbnail"`

	ResolutionNote     *string    `json:"resolution_note,omitempty"`
	HasResolutionPhoto bool       `json:"has_resolution_photo"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewComplaintResponse(c *complaint.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                 c.ID,
		User:               userHttp.UserTag{ID: c.UserID, Name: c.UserName},
		Category:           c.Category,
		Subject:            c.Subject,
		Description:        c.Description,
		Status:             string(c.Status),
		HasPhoto:           c.PhotoPath != nil,
		HasThumbnail:       c.ThumbnailPath != nil,
		ResolutionNote:     c.ResolutionNote,
		HasResolutionPhoto: c.ResolutionPhotoPath != nil,
		ResolvedAt:         c.ResolvedAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

type CreateComplaintForm struct {
	Category    string `form:"category" binding:"required"`
	Subject     string `form:"subject" binding:"required,max=200"`
	Description string `form:"description" binding:"max=4000"`
}

type ListComplaintsRequest struct {
	request.ListParams
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,oneof=open in_progress resolved"`
}

type ResolveComplaintForm struct {
	Note string `form:"note" binding:"required,max=2000"`
}
