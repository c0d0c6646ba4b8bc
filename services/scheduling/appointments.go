package scheduling

import (
	"context"
	"fmt"
	"time"

	"dencare/models"
)

// GetAppointment returns the record if the caller owns it or is an admin.
// Unknown and foreign records both come back as ErrNotFound so the
// response never confirms another user's record exists.
func (e *DefaultSchedulingEngine) GetAppointment(ctx context.Context, id, callerID string, isAdmin bool) (*models.Appointment, error) {
	appt, err := e.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if appt.UserID != callerID && !isAdmin {
		return nil, ErrNotFound
	}
	return appt, nil
}

// ListUserAppointments returns the caller's appointments from today on.
func (e *DefaultSchedulingEngine) ListUserAppointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	today := time.Now().In(e.Location).Format(dateLayout)
	appts, err := e.Repo.ListForUser(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// UpdateStatus applies a staff status change and pushes the update to the
// appointment room and the owner. The slot cache for the date is
// invalidated since cancellations free the interval.
func (e *DefaultSchedulingEngine) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	appt, err := e.Repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, ErrNotFound
	}

	e.invalidateSlots(ctx, appt.Date)
	if e.Notifier != nil {
		e.Notifier.AppointmentStatusChanged(ctx, appt)
	}
	return appt, nil
}
