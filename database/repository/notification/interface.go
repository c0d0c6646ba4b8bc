package notificationRepo

import (
	"context"
	"time"

	"dencare/models"
)

// Repository defines methods for notification data access.
type Repository interface {
	// Create inserts a new notification record.
	Create(ctx context.Context, n *models.Notification) error
	// ListUnread retrieves a user's unread, unexpired notifications,
	// newest first, capped at limit.
	ListUnread(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	// MarkRead flags the notification as read. The userID guard keeps a
	// caller from touching another user's record; a miss reports false.
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	// DeleteExpired removes notifications whose expiry is in the past and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
