package notice

import (
	"time"

	"github.com/societyos/society-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.NotFound("notice not found")
	ErrTitleRequired   = apperror.BadRequest("title is required")
	ErrInvalidCategory = apperror.BadRequest("invalid notice category")
)

var validCategories = map[string]bool{
	"general":     true,
	"maintenance": true,
	"event":       true,
	"emergency":   true,
}

func ValidCategory(c string) bool {
	return validCategories[c]
}

type Notice struct {
	ID            string
	Title         string
	Body          string
	Category      string
	CreatedBy     string
	CreatedByName string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Filter struct {
	Category  string
	Keyword   string
	Page      int
	PageSize  int
	SortOrder string
}
