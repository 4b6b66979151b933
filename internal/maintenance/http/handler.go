package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/maintenance"
	"github.com/societyos/society-backend/internal/pkg/request"
	"github.com/societyos/society-backend/internal/pkg/response"
	"github.com/societyos/society-backend/internal/user"
)

type Handler struct {
	service maintenance.Service
}

func NewHandler(service maintenance.Service) *Handler {
	return &Handler{service: service}
}

// Generate creates the bills for one period. Admin only (enforced by
// route middleware).
func (h *Handler) Generate(c *gin.Context) {
	var body GenerateBillsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.GeneratePeriod(c.Request.Context(), body.Month, body.Year, body.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, GenerateBillsResponse{
		Month:   result.Month,
		Year:    result.Year,
		Created: result.Created,
		Skipped: result.Skipped,
	})
}

func (h *Handler) List(c *gin.Context) {
	var req ListBillsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	// Non-admin callers only ever see their own bills.
	filterUserID := auth.GetUserID(c)
	if auth.GetUserRole(c) == string(user.RoleAdmin) {
		filterUserID = req.UserID // empty shows all
	}

	filter := maintenance.Filter{
		UserID:    filterUserID,
		Month:     req.Month,
		Year:      req.Year,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: req.SortOrder,
	}

	bills, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bills"})
		return
	}

	items := make([]BillResponse, len(bills))
	for i, b := range bills {
		items[i] = NewBillResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if b.UserID != auth.GetUserID(c) && auth.GetUserRole(c) != string(user.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewBillResponse(b))
}

func (h *Handler) Pay(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	isAdmin := auth.GetUserRole(c) == string(user.RoleAdmin)
	b, err := h.service.Pay(c.Request.Context(), uri.ID, auth.GetUserID(c), isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBillResponse(b))
}
