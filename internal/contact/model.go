package contact

import (
	"time"

	"github.com/societyos/society-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.NotFound("contact not found")
	ErrNameRequired  = apperror.BadRequest("name is required")
	ErrPhoneRequired = apperror.BadRequest("phone is required")
)

// Contact is one entry in the society's directory of useful numbers
// (security desk, plumber, ambulance and the like).
type Contact struct {
	ID        string
	Name      string
	Phone     string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	Category  string
	Keyword   string
	Page      int
	PageSize  int
	SortOrder string
}
