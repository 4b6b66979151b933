package maintenance

import (
	"net/http"
	"time"

	"github.com/societyos/society-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("bill not found")
	ErrInvalidPeriod    = apperror.BadRequest("invalid billing period")
	ErrInvalidAmount    = apperror.BadRequest("amount must be positive")
	ErrAlreadyPaid      = apperror.New(http.StatusConflict, "bill is already paid")
	ErrDuplicateBill    = apperror.New(http.StatusConflict, "bill already exists for this period")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusDue  Status = "due"
	StatusPaid Status = "paid"
)

// Bill is one resident's maintenance charge for one calendar month.
// (user_id, month, year) is unique in the database, which is what makes
// period generation idempotent.
type Bill struct {
	ID        string
	UserID    string
	UserName  string
	Month     int
	Year      int
	Amount    float64
	Status    Status
	PaidAt    *time.Time
	CreatedAt time.Time
}

type Filter struct {
	UserID    string
	Month     int
	Year      int
	Status    string
	Page      int
	PageSize  int
	SortOrder string
}

// Resident is the subset of a user that billing needs.
type Resident struct {
	ID   string
	Name string
}

// GenerateResult summarizes one generation run. Skipped counts residents
// who already had a bill for the period.
type GenerateResult struct {
	Month   int
	Year    int
	Created int
	Skipped int
}
