package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/users")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("/me", h.Me)
		group.PATCH("/me", h.UpdateMe)
	}

	// === Administration Routes (Admin Only) ===
	adminGroup := group.Group("")
	adminGroup.Use(adminMiddleware)
	{
		adminGroup.GET("", h.List)
		adminGroup.GET("/:id", h.Get)
		adminGroup.PATCH("/:id", h.AdminUpdate)
	}
}
