package events

import (
	"time"

	"github.com/niftrix/referral-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserVerified     EventType = "user_verified"
	EventUserSuspended    EventType = "user_suspended"
	EventNotificationSent EventType = "notification_broadcast"
	EventUsersImported    EventType = "users_imported"
)

// Actor identifies the admin behind an event. AdminID is zero for
// unauthenticated or system callers.
type Actor struct {
	AdminID int64 `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    int64     `json:"user_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// StatusChangedPayload describes a committed member status transition.
type StatusChangedPayload struct {
	OldStatus        domain.UserStatus `json:"old_status,omitempty"`
	NewStatus        domain.UserStatus `json:"new_status"`
	NotificationSent bool              `json:"notification_sent"`
}

// BroadcastPayload summarizes one notification broadcast.
type BroadcastPayload struct {
	RecipientType string `json:"recipient_type"`
	Attempted     int    `json:"attempted"`
	Sent          int    `json:"sent"`
	Failed        int    `json:"failed"`
}

// ImportPayload summarizes one member CSV import.
type ImportPayload struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Invalid  int `json:"invalid"`
	Failed   int `json:"failed"`
}
