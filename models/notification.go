package models

import "time"

// Notification priorities and types used by the dispatcher.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"

	NotificationGeneral     = "general"
	NotificationAppointment = "appointment"
	NotificationReminder    = "reminder"
)

// Notification is a durable per-user message. The stored row is the
// delivery guarantee; live pushes over an open connection are best effort.
type Notification struct {
	ID        string     `bson:"id" json:"id"`
	UserID    string     `bson:"userId" json:"userId"`
	Title     string     `bson:"title" json:"title"`
	Message   string     `bson:"message" json:"message"`
	Type      string     `bson:"type" json:"type"`
	Priority  string     `bson:"priority" json:"priority"`
	IsRead    bool       `bson:"isRead" json:"isRead"`
	ActionURL string     `bson:"actionUrl,omitempty" json:"actionUrl,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}
