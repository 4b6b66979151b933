package http

import (
	"time"

	amenityHttp "github.com/societyos/society-backend/internal/amenity/http"
	"github.com/societyos/society-backend/internal/booking"
	"github.com/societyos/society-backend/internal/pkg/clock"
	"github.com/societyos/society-backend/internal/pkg/request"
	userHttp "github.com/societyos/society-backend/internal/user/http"
)

const dateLayout = "2006-01-02"

type BookingResponse struct {
	ID        string                 `json:"id"`
	Amenity   amenityHttp.AmenityTag `json:"amenity"`
	User      userHttp.UserTag       `json:"user"`
	Date      string                 `json:"date"`
	StartTime string                 `json:"start_time"`
	EndTime   string                 `json:"end_time"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Amenity:   amenityHttp.AmenityTag{ID: b.AmenityID, Name: b.AmenityName},
		User:      userHttp.UserTag{ID: b.UserID, Name: b.UserName},
		Date:      b.Date.Format(dateLayout),
		StartTime: clock.FormatHHMM(b.StartMinute),
		EndTime:   clock.FormatHHMM(b.EndMinute),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	AmenityID string `json:"amenity_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// Validate parses the date and HH:mm fields.
func (r *CreateBookingRequest) Validate() (date time.Time, startMin, endMin int, err error) {
	date, err = time.Parse(dateLayout, r.Date)
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	startMin, err = clock.ParseHHMM(r.StartTime)
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	endMin, err = clock.ParseHHMM(r.EndTime)
	if err != nil {
		return time.Time{}, 0, 0, err
	}
	return date, startMin, endMin, nil
}

type ListBookingsRequest struct {
	request.ListParams
	AmenityID string `form:"amenity_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed rejected cancelled"`
	UserID    string `form:"user_id" binding:"omitempty,uuid"`
	Date      string `form:"date"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=booking_date created_at status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected"`
}

type AmenityDayRequest struct {
	AmenityID string `uri:"amenityId" binding:"required,uuid"`
}
