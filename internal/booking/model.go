package booking

import (
	"net/http"
	"time"

	"github.com/societyos/society-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrAmenityNotFound  = apperror.New(http.StatusNotFound, "amenity not found")
	ErrAmenityInactive  = apperror.New(http.StatusBadRequest, "amenity is not active")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrOutOfHours       = apperror.New(http.StatusBadRequest, "requested slot is outside amenity operating hours")
	ErrCapacityExceeded = apperror.New(http.StatusConflict, "amenity capacity exceeded for the requested slot")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrNotPending       = apperror.New(http.StatusConflict, "only pending bookings can be decided")
	ErrAlreadyTerminal  = apperror.New(http.StatusConflict, "booking is already cancelled or rejected")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// Booking reserves an amenity for a [StartMinute, EndMinute) slot on a
// calendar day. Pending and confirmed bookings count against the
// amenity's capacity; rejected and cancelled ones do not.
type Booking struct {
	ID          string
	UserID      string
	UserName    string
	AmenityID   string
	AmenityName string
	Date        time.Time // calendar day, time component zero
	StartMinute int
	EndMinute   int
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether the booking's slot intersects the half-open
// interval [start, end) on the same day.
func (b *Booking) Overlaps(start, end int) bool {
	return b.StartMinute < end && b.EndMinute > start
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID    string
	AmenityID string
	Status    string
	Date      *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
