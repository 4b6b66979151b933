package http

import (
	"time"

	"github.com/societyos/society-backend/internal/amenity"
	"github.com/societyos/society-backend/internal/pkg/clock"
	"github.com/societyos/society-backend/internal/pkg/request"
)

// AmenityTag is the minimal amenity reference embedded in other responses.
type AmenityTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AmenityResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	Capacity         int       `json:"capacity"`
	OpenTime         string    `json:"open_time"`
	CloseTime        string    `json:"close_time"`
	RequiresApproval bool      `json:"requires_approval"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewAmenityResponse(a *amenity.Amenity) AmenityResponse {
	return AmenityResponse{
		ID:               a.ID,
		Name:             a.Name,
		Description:      a.Description,
		Capacity:         a.Capacity,
		OpenTime:         clock.FormatHHMM(a.OpenMinute),
		CloseTime:        clock.FormatHHMM(a.CloseMinute),
		RequiresApproval: a.RequiresApproval,
		IsActive:         a.IsActive,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

type ListAmenitiesRequest struct {
	request.ListParams
	Keyword         string `form:"keyword"`
	IncludeInactive bool   `form:"include_inactive"`
	SortBy          string `form:"sort_by" binding:"omitempty,oneof=name capacity created_at"`
}

type CreateAmenityRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Capacity         int    `json:"capacity" binding:"required,min=1"`
	OpenTime         string `json:"open_time" binding:"required"`
	CloseTime        string `json:"close_time" binding:"required"`
	RequiresApproval bool   `json:"requires_approval"`
}

// Validate parses the HH:mm fields and returns the minute equivalents.
func (r *CreateAmenityRequest) Validate() (openMin, closeMin int, err error) {
	openMin, err = clock.ParseHHMM(r.OpenTime)
	if err != nil {
		return 0, 0, err
	}
	closeMin, err = clock.ParseHHMM(r.CloseTime)
	if err != nil {
		return 0, 0, err
	}
	return openMin, closeMin, nil
}

type UpdateAmenityRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Capacity         *int    `json:"capacity" binding:"omitempty,min=1"`
	OpenTime         *string `json:"open_time"`
	CloseTime        *string `json:"close_time"`
	RequiresApproval *bool   `json:"requires_approval"`
	IsActive         *bool   `json:"is_active"`
}
