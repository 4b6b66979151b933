package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/user"
)

// RequireRole ensures the authenticated user currently holds one of the
// given roles. The check goes through the database rather than trusting
// the role claim, so demotions take effect without waiting for token
// expiry. It MUST be used after auth.AuthRequired middleware.
func RequireRole(userService user.Service, roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
			return
		}

		for _, role := range roles {
			if u.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
	}
}
