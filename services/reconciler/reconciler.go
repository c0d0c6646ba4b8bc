package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	notificationRepo "dencare/database/repository/notification"
	userRepo "dencare/database/repository/user"
	"dencare/models"
	"dencare/utils"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// AlertSink receives the health broadcast and admin alerts.
type AlertSink interface {
	AdminAlert(alertType, message string, data map[string]any)
	SystemHealth(data map[string]any)
}

// ReminderSink takes over delivery of a due reminder. The production
// sink enqueues onto the asynq reminder queue.
type ReminderSink interface {
	EnqueueReminder(ctx context.Context, appt models.Appointment) error
}

// ConnectionCounter reports how many users are currently online.
type ConnectionCounter interface {
	Count() int
}

// Reconciler runs the periodic maintenance passes: reminder scan, expiry
// sweep and health broadcast. Exactly one instance should run per
// deployment; the reminderSent flag commit is the duplicate gate.
type Reconciler struct {
	Interval      time.Duration
	Location      *time.Location
	Appointments  appointmentRepo.Repository
	Notifications notificationRepo.Repository
	Users         userRepo.Repository
	Presence      ConnectionCounter
	Alerts        AlertSink
	Reminders     ReminderSink
	Logger        *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Start launches the tick loop. It returns immediately; Stop shuts the
// loop down and waits for an in-flight run to finish.
func (r *Reconciler) Start() {
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.RunOnce(context.Background())
			}
		}
	}()
	r.Logger.Info("reconciler started", zap.Duration("interval", r.Interval))
}

// Stop halts the tick loop.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		<-r.done
	})
}

// RunOnce executes the three passes. Each pass isolates its own failure:
// an error is logged and the remaining passes still run.
func (r *Reconciler) RunOnce(ctx context.Context) {
	if err := r.reminderPass(ctx); err != nil {
		r.Logger.Error("reminder pass failed", zap.Error(err))
	}
	if err := r.sweepPass(ctx); err != nil {
		r.Logger.Error("expiry sweep failed", zap.Error(err))
	}
	if err := r.healthPass(ctx); err != nil {
		r.Logger.Error("health pass failed", zap.Error(err))
	}
}

// reminderPass hands every due reminder to the sink and flips
// reminderSent in the same pass. A crash between hand-off and flag
// commit can duplicate at most one reminder; delivery is at-least-once.
func (r *Reconciler) reminderPass(ctx context.Context) error {
	now := time.Now().In(r.Location)
	tomorrow := now.AddDate(0, 0, 1).Format(dateLayout)

	due, err := r.Appointments.ListDueReminders(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("listing due reminders: %w", err)
	}

	for _, appt := range due {
		if err := r.Reminders.EnqueueReminder(ctx, appt); err != nil {
			// Flag stays false; the next tick retries this reminder.
			r.Logger.Error("failed to enqueue reminder",
				zap.String("appointmentId", appt.ID), zap.Error(err))
			continue
		}
		flipped, err := r.Appointments.MarkReminderSent(ctx, appt.ID, now)
		if err != nil {
			r.Logger.Error("failed to mark reminder sent",
				zap.String("appointmentId", appt.ID), zap.Error(err))
			continue
		}
		if flipped {
			r.Logger.Info("reminder scheduled", zap.String("appointmentId", appt.ID))
		}
	}
	return nil
}

// sweepPass deletes notifications past their expiry.
func (r *Reconciler) sweepPass(ctx context.Context) error {
	deleted, err := r.Notifications.DeleteExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("deleting expired notifications: %w", err)
	}
	if deleted > 0 {
		r.Logger.Info("expired notifications removed", zap.Int64("count", deleted))
	}
	return nil
}

// healthPass broadcasts system metrics to the admin room and raises an
// alert while overdue appointments exist.
func (r *Reconciler) healthPass(ctx context.Context) error {
	today := time.Now().In(r.Location).Format(dateLayout)

	overdue, err := r.Appointments.CountOverdue(ctx, today)
	if err != nil {
		return fmt.Errorf("counting overdue appointments: %w", err)
	}
	scheduled, err := r.Appointments.CountScheduled(ctx)
	if err != nil {
		return fmt.Errorf("counting scheduled appointments: %w", err)
	}
	activeUsers, err := r.Users.CountActive(ctx)
	if err != nil {
		return fmt.Errorf("counting active users: %w", err)
	}

	if overdue > 0 {
		r.Alerts.AdminAlert("overdue_appointments",
			fmt.Sprintf("Found %d overdue appointments", overdue),
			map[string]any{"count": overdue})
	}

	r.Alerts.SystemHealth(map[string]any{
		"totalUsers":         activeUsers,
		"activeAppointments": scheduled,
		"overdue":            overdue,
		"connectedUsers":     r.Presence.Count(),
		"infra":              utils.GetHealthStatus(),
		"timestamp":          time.Now(),
	})
	return nil
}
