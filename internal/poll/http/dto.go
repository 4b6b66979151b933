package http

import (
	"time"

	"github.com/societyos/society-backend/internal/pkg/request"
	"github.com/societyos/society-backend/internal/poll"
	userHttp "github.com/societyos/society-backend/internal/user/http"
)

type OptionResponse struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type PollResponse struct {
	ID         string           `json:"id"`
	Question   string           `json:"question"`
	IsClosed   bool             `json:"is_closed"`
	ClosesAt   *time.Time       `json:"closes_at,omitempty"`
	CreatedBy  userHttp.UserTag `json:"created_by"`
	Options    []OptionResponse `json:"options"`
	TotalVotes int              `json:"total_votes"`
	MyVote     string           `json:"my_vote,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

func NewPollResponse(p *poll.Poll, myVote string) PollResponse {
	options := make([]OptionResponse, len(p.Options))
	for i, o := range p.Options {
		options[i] = OptionResponse{ID: o.ID, Text: o.Text, Votes: o.Votes}
	}
	return PollResponse{
		ID:         p.ID,
		Question:   p.Question,
		IsClosed:   p.IsClosed,
		ClosesAt:   p.ClosesAt,
		CreatedBy:  userHttp.UserTag{ID: p.CreatedBy, Name: p.CreatedByName},
		Options:    options,
		TotalVotes: p.TotalVotes,
		MyVote:     myVote,
		CreatedAt:  p.CreatedAt,
	}
}

type CreatePollRequest struct {
	Question string     `json:"question" binding:"required,max=500"`
	Options  []string   `json:"options" binding:"required,min=2,max=20,dive,required,max=200"`
	ClosesAt *time.Time `json:"closes_at"`
}

type VoteRequest struct {
	OptionID string `json:"option_id" binding:"required,uuid"`
}

type ListPollsRequest struct {
	request.ListParams
	IncludeClosed bool `form:"include_closed"`
}
