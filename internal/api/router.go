package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/societyos/society-backend/internal/amenity"
	amenityHttp "github.com/societyos/society-backend/internal/amenity/http"
	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/booking"
	bookingHttp "github.com/societyos/society-backend/internal/booking/http"
	"github.com/societyos/society-backend/internal/complaint"
	complaintHttp "github.com/societyos/society-backend/internal/complaint/http"
	"github.com/societyos/society-backend/internal/config"
	"github.com/societyos/society-backend/internal/contact"
	contactHttp "github.com/societyos/society-backend/internal/contact/http"
	"github.com/societyos/society-backend/internal/maintenance"
	maintenanceHttp "github.com/societyos/society-backend/internal/maintenance/http"
	"github.com/societyos/society-backend/internal/notice"
	noticeHttp "github.com/societyos/society-backend/internal/notice/http"
	"github.com/societyos/society-backend/internal/notification"
	notificationHttp "github.com/societyos/society-backend/internal/notification/http"
	"github.com/societyos/society-backend/internal/poll"
	pollHttp "github.com/societyos/society-backend/internal/poll/http"
	"github.com/societyos/society-backend/internal/user"
	userHttp "github.com/societyos/society-backend/internal/user/http"
)

// Services groups everything the router needs to wire handlers.
type Services struct {
	Users         user.Service
	Amenities     amenity.Service
	Bookings      booking.Service
	Maintenance   maintenance.Service
	Complaints    complaint.Service
	Notices       notice.Service
	Polls         poll.Service
	Contacts      contact.Service
	Notifications notification.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg *config.Config, services Services, jwtManager *auth.JWTManager) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(jwtManager)
	// adminMiddleware: Further checks if the authenticated user is an admin.
	adminMiddleware := RequireRole(services.Users, user.RoleAdmin)
	// staffMiddleware: Allows both staff and admin users.
	staffMiddleware := RequireRole(services.Users, user.RoleStaff, user.RoleAdmin)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	authHandler := NewAuthHandler(services.Users, jwtManager)
	userHandler := userHttp.NewHandler(services.Users)
	amenityHandler := amenityHttp.NewHandler(services.Amenities)
	bookingHandler := bookingHttp.NewHandler(services.Bookings)
	maintenanceHandler := maintenanceHttp.NewHandler(services.Maintenance)
	complaintHandler := complaintHttp.NewHandler(services.Complaints)
	noticeHandler := noticeHttp.NewHandler(services.Notices)
	pollHandler := pollHttp.NewHandler(services.Polls)
	contactHandler := contactHttp.NewHandler(services.Contacts)
	notificationHandler := notificationHttp.NewHandler(services.Notifications)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		amenityHttp.RegisterRoutes(v1, amenityHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		maintenanceHttp.RegisterRoutes(v1, maintenanceHandler, authMiddleware, adminMiddleware)
		complaintHttp.RegisterRoutes(v1, complaintHandler, authMiddleware, staffMiddleware)
		noticeHttp.RegisterRoutes(v1, noticeHandler, authMiddleware, adminMiddleware)
		pollHttp.RegisterRoutes(v1, pollHandler, authMiddleware, adminMiddleware)
		contactHttp.RegisterRoutes(v1, contactHandler, authMiddleware, adminMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
	}

	return r
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
