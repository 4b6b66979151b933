package amenity

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("amenity not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	ErrInvalidHours    = errors.New("opening time must be before closing time")
)

// Amenity is a bookable shared facility (clubhouse, pool, gym).
// Amenities are soft-deleted: is_active=false hides them from booking
// but keeps historical bookings intact.
type Amenity struct {
	ID          string
	Name        string
	Description *string
	Capacity    int // max simultaneous bookings per slot

	// Operating hours as minutes since midnight, half-open [Open, Close).
	OpenMinute  int
	CloseMinute int

	RequiresApproval bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Filter defines parameters for listing amenities.
type Filter struct {
	// IncludeInactive is only honoured for admin callers.
	IncludeInactive bool
	Keyword         string
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}
