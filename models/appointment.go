package models

import "time"

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment is a committed booking for a single clinic resource.
// Start and duration are minutes from midnight in the clinic's timezone;
// Date is the clinic-local day in "2006-01-02" form. Appointments are
// soft-deleted only.
type Appointment struct {
	ID             string     `bson:"id" json:"id"`
	UserID         string     `bson:"userId" json:"userId"`
	ServiceType    string     `bson:"serviceType" json:"serviceType"`
	Date           string     `bson:"date" json:"date"`
	Start          int        `bson:"start" json:"start"`
	Duration       int        `bson:"duration" json:"duration"`
	Status         string     `bson:"status" json:"status"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
	ReminderSent   bool       `bson:"reminderSent" json:"reminderSent"`
	ReminderSentAt *time.Time `bson:"reminderSentAt,omitempty" json:"reminderSentAt,omitempty"`
	IsDeleted      bool       `bson:"isDeleted" json:"-"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// End returns the exclusive end of the appointment interval, in minutes
// from midnight.
func (a Appointment) End() int {
	return a.Start + a.Duration
}

// Blocks reports whether the appointment still occupies its interval for
// conflict purposes.
func (a Appointment) Blocks() bool {
	return !a.IsDeleted && a.Status != StatusCancelled
}

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}
