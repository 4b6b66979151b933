package http

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/complaint"
	"github.com/societyos/society-backend/internal/pkg/request"
	"github.com/societyos/society-backend/internal/pkg/response"
	"github.com/societyos/society-backend/internal/user"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type Handler struct {
	service complaint.Service
}

func NewHandler(service complaint.Service) *Handler {
	return &Handler{service: service}
}

func staffOrAdmin(role string) bool {
	return role == string(user.RoleAdmin) || role == string(user.RoleStaff)
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateComplaintForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	req := complaint.CreateRequest{
		UserID:      auth.GetUserID(c),
		Category:    form.Category,
		Subject:     form.Subject,
		Description: form.Description,
	}

	if fileHeader, err := c.FormFile("photo"); err == nil {
		if fileHeader.Size > maxPhotoSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the 10 MiB limit"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
		defer file.Close()
		req.Photo = file
		req.PhotoFilename = fileHeader.Filename
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewComplaintResponse(created))
}

func (h *Handler) List(c *gin.Context) {
	var req ListComplaintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	// Residents only ever see their own complaints.
	filterUserID := auth.GetUserID(c)
	if staffOrAdmin(auth.GetUserRole(c)) {
		filterUserID = req.UserID // empty shows all
	}

	filter := complaint.Filter{
		UserID:    filterUserID,
		Category:  req.Category,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: req.SortOrder,
	}

	complaints, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list complaints"})
		return
	}

	items := make([]ComplaintResponse, len(complaints))
	for i, cm := range complaints {
		items[i] = NewComplaintResponse(cm)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	cm, ok := h.loadAccessible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewComplaintResponse(cm))
}

// Start moves an open complaint to in_progress. Staff or admin only
// (enforced by route middleware).
func (h *Handler) Start(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	cm, err := h.service.Start(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewComplaintResponse(cm))
}

func (h *Handler) Resolve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var form ResolveComplaintForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	req := complaint.ResolveRequest{Note: form.Note}
	if fileHeader, err := c.FormFile("photo"); err == nil {
		if fileHeader.Size > maxPhotoSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the 10 MiB limit"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
			return
		}
		defer file.Close()
		req.Photo = file
		req.PhotoFilename = fileHeader.Filename
	}

	cm, err := h.service.Resolve(c.Request.Context(), uri.ID, auth.GetUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewComplaintResponse(cm))
}

func (h *Handler) Photo(c *gin.Context) {
	cm, ok := h.loadAccessible(c)
	if !ok {
		return
	}

	variant := complaint.PhotoOriginal
	switch c.Query("variant") {
	case "thumbnail":
		variant = complaint.PhotoThumbnail
	case "resolution":
		variant = complaint.PhotoResolution
	}

	rc, err := h.service.Photo(c.Request.Context(), cm, variant)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	contentType := "image/jpeg"
	if path := cm.PhotoPathFor(variant); path != nil && strings.EqualFold(filepath.Ext(*path), ".png") {
		contentType = "image/png"
	}

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

// loadAccessible fetches the complaint and enforces owner/staff access.
func (h *Handler) loadAccessible(c *gin.Context) (*complaint.Complaint, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return nil, false
	}

	cm, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	if cm.UserID != auth.GetUserID(c) && !staffOrAdmin(auth.GetUserRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return nil, false
	}

	return cm, true
}
