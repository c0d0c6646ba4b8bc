package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"dencare/models"
)

// ErrUnavailable is returned by BookTransactionally when the requested
// interval is no longer free at commit time.
var ErrUnavailable = errors.New("slot no longer available")

// Repository defines methods for appointment data access.
type Repository interface {
	// GetByID retrieves an appointment by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListCommitted retrieves the non-deleted, non-cancelled appointments
	// for a clinic-local date, ordered by start time.
	ListCommitted(ctx context.Context, date string) ([]models.Appointment, error)
	// ListForUser retrieves a user's non-deleted appointments dated on or
	// after fromDate, ordered by date then start time.
	ListForUser(ctx context.Context, userID, fromDate string) ([]models.Appointment, error)
	// ListDueReminders retrieves scheduled, non-deleted appointments on
	// the given date whose reminder has not been sent.
	ListDueReminders(ctx context.Context, date string) ([]models.Appointment, error)
	// MarkReminderSent flips reminderSent from false to true. It reports
	// whether this call performed the flip; false means another pass
	// already claimed the reminder.
	MarkReminderSent(ctx context.Context, id string, at time.Time) (bool, error)
	// UpdateStatus sets the appointment status and returns the updated record.
	UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error)
	// CountOverdue counts scheduled, non-deleted appointments dated
	// strictly before the given date.
	CountOverdue(ctx context.Context, before string) (int64, error)
	// CountScheduled counts scheduled, non-deleted appointments.
	CountScheduled(ctx context.Context) (int64, error)
	// BookTransactionally inserts the appointment iff stillAvailable
	// reports true against the committed set read inside the same
	// serialized transaction. Same-date commits are mutually exclusive,
	// so two overlapping requests cannot both pass the recheck.
	BookTransactionally(ctx context.Context, appt *models.Appointment, stillAvailable func(committed []models.Appointment) bool) error
}
