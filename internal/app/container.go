package app

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/go-co-op/gocron/v2"
	"github.com/societyos/society-backend/internal/amenity"
	"github.com/societyos/society-backend/internal/api"
	"github.com/societyos/society-backend/internal/auth"
	"github.com/societyos/society-backend/internal/booking"
	"github.com/societyos/society-backend/internal/complaint"
	"github.com/societyos/society-backend/internal/config"
	"github.com/societyos/society-backend/internal/contact"
	"github.com/societyos/society-backend/internal/maintenance"
	"github.com/societyos/society-backend/internal/notice"
	"github.com/societyos/society-backend/internal/notification"
	"github.com/societyos/society-backend/internal/pkg/storage"
	"github.com/societyos/society-backend/internal/poll"
	"github.com/societyos/society-backend/internal/user"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Dispatcher *notification.Dispatcher

	// Scheduler runs the monthly billing job. Nil when auto-billing is
	// disabled.
	Scheduler gocron.Scheduler
}

// NewContainer initializes all modules and returns the container.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	store, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	images := storage.NewImageProcessor()

	// Push notifications: FCM when credentials are configured,
	// console logging otherwise.
	var notifier notification.Notifier
	if cfg.FCMCredentialsFile != "" {
		fcm, err := notification.NewFCMNotifier(ctx, cfg.FCMCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("init fcm: %w", err)
		}
		notifier = fcm
	} else {
		log.Println("FCM_CREDENTIALS_FILE not set, pushes will be logged to console")
		notifier = notification.NewConsoleNotifier()
	}

	tokenRepo := notification.NewPgxTokenRepository(pool)
	dispatcher := notification.NewDispatcher(notifier, tokenRepo, 256)
	notificationService := notification.NewService(tokenRepo)

	// User Module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher)

	// Amenity Module
	amenityRepo := amenity.NewPgxRepository(pool)
	amenityService := amenity.NewService(amenityRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(pool)
	bookingService := booking.NewService(bookingRepo, amenityService, dispatcher)

	// Maintenance Module
	maintenanceRepo := maintenance.NewPgxRepository(pool)
	maintenanceService := maintenance.NewService(maintenanceRepo, dispatcher)

	// Complaint Module
	complaintRepo := complaint.NewPgxRepository(pool)
	complaintService := complaint.NewService(complaintRepo, store, images, dispatcher)

	// Notice Module
	noticeRepo := notice.NewPgxRepository(pool)
	noticeService := notice.NewService(noticeRepo, dispatcher)

	// Poll Module
	pollRepo := poll.NewPgxRepository(pool)
	pollService := poll.NewService(pollRepo, dispatcher)

	// Contact Module
	contactRepo := contact.NewPgxRepository(pool)
	contactService := contact.NewService(contactRepo)

	// Monthly billing job (optional)
	var scheduler gocron.Scheduler
	if cfg.MaintenanceAutoAmount > 0 {
		scheduler, err = maintenance.NewScheduler(maintenanceService, cfg.MaintenanceAutoAmount)
		if err != nil {
			return nil, fmt.Errorf("init billing scheduler: %w", err)
		}
	}

	// Router
	router := api.NewRouter(cfg, api.Services{
		Users:         userService,
		Amenities:     amenityService,
		Bookings:      bookingService,
		Maintenance:   maintenanceService,
		Complaints:    complaintService,
		Notices:       noticeService,
		Polls:         pollService,
		Contacts:      contactService,
		Notifications: notificationService,
	}, jwtManager)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
	}, nil
}
