package http

import (
	"time"

	"github.com/societyos/society-backend/internal/contact"
	"github.com/societyos/society-backend/internal/pkg/request"
)

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Category:  c.Category,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateContactRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Phone    string `json:"phone" binding:"required,max=30"`
	Category string `json:"category" binding:"max=100"`
}

type UpdateContactRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Category *string `json:"category" binding:"omitempty,max=100"`
}

type ListContactsRequest struct {
	request.ListParams
	Category string `form:"category" binding:"omitempty,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
}
