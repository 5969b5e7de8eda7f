package domain

import (
	"context"
	"time"
)

// Notification is an in-app message for a user about an event.
// swagger:model Notification
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification returns an unread Notification. ID is set by the repository on create.
func NewNotification(userID, eventID, message string, createdAt time.Time) *Notification {
	return &Notification{
		UserID:    userID,
		EventID:   eventID,
		Message:   message,
		CreatedAt: createdAt,
	}
}

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUserID(ctx context.Context, userID string) ([]*Notification, error)
	// MarkRead marks the notification read if it belongs to userID; ErrNotFound otherwise.
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

// NotificationService fans out and serves in-app notifications.
type NotificationService interface {
	// NotifyEventCreated creates one notification per user in the event's location and
	// returns how many were created.
	NotifyEventCreated(ctx context.Context, event *Event) (int, error)
	List(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}
