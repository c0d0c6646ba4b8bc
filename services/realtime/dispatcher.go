package realtime

import (
	"context"
	"fmt"
	"time"

	notificationRepo "dencare/database/repository/notification"
	"dencare/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationInput carries one createAndDispatch call.
type NotificationInput struct {
	UserID    string
	Title     string
	Message   string
	Type      string
	Priority  string
	ActionURL string
	ExpiresAt *time.Time
}

// Dispatcher persists notifications and pushes them to whoever is
// online. The durable write always happens; the live push is best
// effort.
type Dispatcher struct {
	Hub    *Hub
	Repo   notificationRepo.Repository
	Logger *zap.Logger
}

func NewDispatcher(hub *Hub, repo notificationRepo.Repository, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{Hub: hub, Repo: repo, Logger: logger}
}

// CreateAndDispatch writes the notification, then pushes it to every one
// of the user's live connections. Exactly one durable write per call.
func (d *Dispatcher) CreateAndDispatch(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}
	if in.Type == "" {
		in.Type = models.NotificationGeneral
	}
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		Priority:  in.Priority,
		ActionURL: in.ActionURL,
		CreatedAt: time.Now(),
		ExpiresAt: in.ExpiresAt,
	}
	if err := d.Repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	delivered := d.Hub.PushToUser(in.UserID, PushNewNotification, n)
	d.Logger.Info("notification dispatched",
		zap.String("userId", in.UserID),
		zap.String("type", n.Type),
		zap.Int("livePushes", delivered))
	return n, nil
}

// AppointmentBooked sends the booking confirmation. Implements
// scheduling.Notifier; failures are logged, never surfaced to the
// booking path.
func (d *Dispatcher) AppointmentBooked(ctx context.Context, appt *models.Appointment) {
	_, err := d.CreateAndDispatch(ctx, NotificationInput{
		UserID: appt.UserID,
		Title:  "Appointment Confirmed",
		Message: fmt.Sprintf("Your %s appointment is scheduled for %s at %s",
			appt.ServiceType, longDate(appt.Date), clock12(appt.Start)),
		Type:      models.NotificationAppointment,
		ActionURL: "/appointment/" + appt.ID,
	})
	if err != nil {
		d.Logger.Error("failed to send booking confirmation", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

// AppointmentStatusChanged pushes the new status into the appointment
// room and notifies the owner. Implements scheduling.Notifier.
func (d *Dispatcher) AppointmentStatusChanged(ctx context.Context, appt *models.Appointment) {
	d.Hub.PushToRoom(AppointmentRoom(appt.ID), PushAppointmentUpdate, map[string]any{
		"appointmentId": appt.ID,
		"status":        appt.Status,
		"notes":         appt.Notes,
		"updatedAt":     appt.UpdatedAt,
	})
	_, err := d.CreateAndDispatch(ctx, NotificationInput{
		UserID: appt.UserID,
		Title:  "Appointment Update",
		Message: fmt.Sprintf("Your %s appointment on %s is now %s",
			appt.ServiceType, longDate(appt.Date), appt.Status),
		Type:      models.NotificationAppointment,
		ActionURL: "/appointment/" + appt.ID,
	})
	if err != nil {
		d.Logger.Error("failed to send status notification", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

// AppointmentReminder sends the day-before reminder for a scheduled
// appointment.
func (d *Dispatcher) AppointmentReminder(ctx context.Context, appt *models.Appointment) error {
	_, err := d.CreateAndDispatch(ctx, NotificationInput{
		UserID:    appt.UserID,
		Title:     "Appointment Reminder",
		Message:   fmt.Sprintf("Your appointment is scheduled for tomorrow at %s", clock12(appt.Start)),
		Type:      models.NotificationReminder,
		Priority:  models.PriorityHigh,
		ActionURL: "/appointment/" + appt.ID,
	})
	return err
}

// AdminAlert broadcasts an alert to the admin room.
func (d *Dispatcher) AdminAlert(alertType, message string, data map[string]any) {
	d.Hub.PushToRoom(AdminRoom, PushAdminAlert, map[string]any{
		"type":      alertType,
		"message":   message,
		"timestamp": time.Now(),
		"data":      data,
	})
}

// SystemHealth broadcasts health metrics to the admin room.
func (d *Dispatcher) SystemHealth(data map[string]any) {
	d.Hub.PushToRoom(AdminRoom, PushSystemHealth, data)
}

func clock12(minutes int) string {
	t := time.Date(0, time.January, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

func longDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}
