package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/societyos/society-backend/internal/amenity"
	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/pkg/clock"
	"github.com/societyos/society-backend/internal/pkg/request"
	"github.com/societyos/society-backend/internal/pkg/response"
	"github.com/societyos/society-backend/internal/user"
)

type Handler struct {
	service amenity.Service
}

func NewHandler(service amenity.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListAmenitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	// Inactive amenities are only visible to admins.
	includeInactive := req.IncludeInactive && auth.GetUserRole(c) == string(user.RoleAdmin)

	filter := amenity.Filter{
		IncludeInactive: includeInactive,
		Keyword:         req.Keyword,
		Page:            req.Page,
		PageSize:        req.PageSize,
		SortBy:          req.SortBy,
		SortOrder:       req.SortOrder,
	}

	amenities, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list amenities"})
		return
	}

	items := make([]AmenityResponse, len(amenities))
	for i, a := range amenities {
		items[i] = NewAmenityResponse(a)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		if errors.Is(err, amenity.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "amenity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get amenity"})
		return
	}

	c.JSON(http.StatusOK, NewAmenityResponse(a))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAmenityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	openMin, closeMin, err := body.Validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.service.Create(c.Request.Context(), amenity.CreateRequest{
		Name:             body.Name,
		Description:      body.Description,
		Capacity:         body.Capacity,
		OpenMinute:       openMin,
		CloseMinute:      closeMin,
		RequiresApproval: body.RequiresApproval,
	})
	if err != nil {
		switch {
		case errors.Is(err, amenity.ErrNameRequired),
			errors.Is(err, amenity.ErrInvalidCapacity),
			errors.Is(err, amenity.ErrInvalidHours):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create amenity"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewAmenityResponse(a))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateAmenityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := amenity.UpdateRequest{
		Name:             body.Name,
		Description:      body.Description,
		Capacity:         body.Capacity,
		RequiresApproval: body.RequiresApproval,
		IsActive:         body.IsActive,
	}
	if body.OpenTime != nil {
		m, err := clock.ParseHHMM(*body.OpenTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.OpenMinute = &m
	}
	if body.CloseTime != nil {
		m, err := clock.ParseHHMM(*body.CloseTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.CloseMinute = &m
	}

	a, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, amenity.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "amenity not found"})
		case errors.Is(err, amenity.ErrNameRequired),
			errors.Is(err, amenity.ErrInvalidCapacity),
			errors.Is(err, amenity.ErrInvalidHours):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update amenity"})
		}
		return
	}

	c.JSON(http.StatusOK, NewAmenityResponse(a))
}

func (h *Handler) Deactivate(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), uri.ID); err != nil {
		if errors.Is(err, amenity.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "amenity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate amenity"})
		return
	}

	c.Status(http.StatusNoContent)
}
