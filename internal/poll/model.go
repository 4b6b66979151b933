package poll

import (
	"net/http"
	"time"

	"github.com/societyos/society-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("poll not found")
	ErrOptionNotFound   = apperror.BadRequest("option does not belong to this poll")
	ErrQuestionRequired = apperror.BadRequest("question is required")
	ErrTooFewOptions    = apperror.BadRequest("a poll needs at least two options")
	ErrClosesInPast     = apperror.BadRequest("closes_at must be in the future")
	ErrAlreadyVoted     = apperror.New(http.StatusConflict, "you have already voted in this poll")
	ErrPollClosed       = apperror.New(http.StatusConflict, "poll is closed")
	ErrAlreadyClosed    = apperror.New(http.StatusConflict, "poll is already closed")
)

type Poll struct {
	ID            string
	Question      string
	IsClosed      bool
	ClosesAt      *time.Time // optional deadline after which votes are rejected
	CreatedBy     string
	CreatedByName string
	CreatedAt     time.Time

	Options    []Option
	TotalVotes int
}

// Open reports whether the poll still accepts votes at time now.
func (p *Poll) Open(now time.Time) bool {
	if p.IsClosed {
		return false
	}
	return p.ClosesAt == nil || now.Before(*p.ClosesAt)
}

type Option struct {
	ID    string
	Text  string
	Votes int
}

type Filter struct {
	IncludeClosed bool
	Page          int
	PageSize      int
	SortOrder     string
}
