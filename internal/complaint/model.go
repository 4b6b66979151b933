package complaint

import (
	"net/http"
	"time"

	"github.com/societyos/society-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("complaint not found")
	ErrInvalidCategory  = apperror.BadRequest("invalid complaint category")
	ErrSubjectRequired  = apperror.BadRequest("subject is required")
	ErrInvalidStatus    = apperror.BadRequest("invalid complaint status")
	ErrAlreadyResolved  = apperror.New(http.StatusConflict, "complaint is already resolved")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrPhotoNotFound    = apperror.NotFound("photo not found")
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

var validCategories = map[string]bool{
	"plumbing":     true,
	"electrical":   true,
	"carpentry":    true,
	"housekeeping": true,
	"security":     true,
	"other":        true,
}

func ValidCategory(c string) bool {
	return validCategories[c]
}

type Complaint struct {
	ID          string
	UserID      string
	UserName    string
	Category    string
	Subject     string
	Description string
	Status      Status

	PhotoPath     *string
	ThumbnailPath *string

	ResolutionNote      *string
	ResolutionPhotoPath *string
	ResolvedBy          *string
	ResolvedAt          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PhotoVariant string

const (
	PhotoOriginal   PhotoVariant = "original"
	PhotoThumbnail  PhotoVariant = "thumbnail"
	PhotoResolution PhotoVariant = "resolution"
)

// PhotoPathFor returns the stored path backing the requested variant,
// nil when that variant was never uploaded.
func (c *Complaint) PhotoPathFor(variant PhotoVariant) *string {
	switch variant {
	case PhotoThumbnail:
		return c.ThumbnailPath
	case PhotoResolution:
		return c.ResolutionPhotoPath
	default:
		return c.PhotoPath
	}
}

type Filter struct {
	UserID    string
	Category  string
	Status    string
	Page      int
	PageSize  int
	SortOrder string
}
