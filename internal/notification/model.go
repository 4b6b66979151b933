package notification

import (
	"errors"
	"time"
)

var (
	ErrTokenNotFound = errors.New("device token not found")
)

// Topics used for broadcast pushes. Admin-facing events (new pending
// bookings, cancellations) go to TopicAdmins; society-wide notices go
// to TopicNotices. Clients subscribe according to their role.
const (
	TopicAdmins  = "admins"
	TopicNotices = "notices"
)

// Message is the payload of a single push notification.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// DeviceToken links a user to one of their registered push endpoints.
// A user may hold several tokens (one per installed device).
type DeviceToken struct {
	ID        string
	UserID    string
	Token     string
	Platform  string // "android" | "ios"
	CreatedAt time.Time
}
