package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/notification"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(c *gin.Context) {
	var body RegisterTokenRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	t, err := h.service.RegisterToken(c.Request.Context(), notification.RegisterTokenRequest{
		UserID:   auth.GetUserID(c),
		Token:    body.Token,
		Platform: body.Platform,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register device token"})
		return
	}

	c.JSON(http.StatusCreated, NewDeviceTokenResponse(t))
}

func (h *Handler) Remove(c *gin.Context) {
	var body RemoveTokenRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.RemoveToken(c.Request.Context(), auth.GetUserID(c), body.Token); err != nil {
		switch {
		case errors.Is(err, notification.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "device token not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove device token"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
