package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
	"dencare/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// BookingRequest carries one booking attempt. Time is "HH:MM" clinic-local.
type BookingRequest struct {
	UserID      string `json:"userId"`
	ServiceType string `json:"serviceType"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes,omitempty"`
}

// Notifier receives booking outcomes for delivery to the owner. Pushes
// are fire-and-forget from the engine's point of view.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt *models.Appointment)
	AppointmentStatusChanged(ctx context.Context, appt *models.Appointment)
}

// Engine exposes the slot listing and booking pipeline.
type Engine interface {
	AvailableSlots(ctx context.Context, date, serviceType string) ([]string, error)
	Book(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	GetAppointment(ctx context.Context, id, callerID string, isAdmin bool) (*models.Appointment, error)
	ListUserAppointments(ctx context.Context, userID string) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error)
}

// DefaultSchedulingEngine is the production implementation.
type DefaultSchedulingEngine struct {
	Repo     appointmentRepo.Repository
	Hours    models.WorkingHours
	Catalog  models.ServiceCatalog
	Stride   int
	Location *time.Location
	Notifier Notifier

	// Cache holds recently computed availability listings; nil disables
	// caching.
	Cache    *redis.Client
	CacheTTL time.Duration
}

func (e *DefaultSchedulingEngine) parseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, e.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrValidation, date)
	}
	return day, nil
}

// AvailableSlots returns the free "HH:MM" start times for the date and
// service, 30-minute stride, bounded by working hours.
func (e *DefaultSchedulingEngine) AvailableSlots(ctx context.Context, date, serviceType string) ([]string, error) {
	day, err := e.parseDate(date)
	if err != nil {
		return nil, err
	}

	if cached, ok := e.cachedSlots(ctx, date, serviceType); ok {
		return cached, nil
	}

	hours := e.Hours[day.Weekday()]
	duration := e.Catalog.Duration(serviceType)

	candidates := GenerateSlots(hours, duration, e.Stride)
	slots := []string{}
	if len(candidates) > 0 {
		committed, err := e.Repo.ListCommitted(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to load committed appointments: %w", err)
		}
		for _, start := range FilterAvailable(candidates, duration, BookedIntervals(committed)) {
			slots = append(slots, MinutesToClock(start))
		}
	}

	e.storeSlots(ctx, date, serviceType, slots)
	return slots, nil
}

// Book revalidates the requested slot against the current committed state
// inside the store transaction and commits the appointment. Two
// simultaneous requests for overlapping intervals yield exactly one
// success.
func (e *DefaultSchedulingEngine) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	day, err := e.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := ClockToMinutes(req.Time)
	if err != nil {
		return nil, err
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrValidation)
	}

	hours := e.Hours[day.Weekday()]
	duration := e.Catalog.Duration(req.ServiceType)
	if !containsSlot(GenerateSlots(hours, duration, e.Stride), start) {
		return nil, fmt.Errorf("%w: %s is not a bookable start time on %s", ErrValidation, req.Time, req.Date)
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		ServiceType: req.ServiceType,
		Date:        req.Date,
		Start:       start,
		Duration:    duration,
		Status:      models.StatusScheduled,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	candidate := Interval{Start: start, End: start + duration}
	err = e.Repo.BookTransactionally(ctx, appt, func(committed []models.Appointment) bool {
		return !HasConflict(candidate, BookedIntervals(committed))
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrUnavailable) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	e.invalidateSlots(ctx, req.Date)
	if e.Notifier != nil {
		e.Notifier.AppointmentBooked(ctx, appt)
	}
	return appt, nil
}

func containsSlot(candidates []int, start int) bool {
	for _, c := range candidates {
		if c == start {
			return true
		}
	}
	return false
}

// Availability cache: keys carry a per-date version so a commit can
// invalidate every service's listing for that date with one INCR.

func (e *DefaultSchedulingEngine) slotsKey(ctx context.Context, date, serviceType string) string {
	ver, _ := e.Cache.Get(ctx, "slotsver:"+date).Int64()
	return fmt.Sprintf("slots:%s:%s:%d", date, serviceType, ver)
}

func (e *DefaultSchedulingEngine) cachedSlots(ctx context.Context, date, serviceType string) ([]string, bool) {
	if e.Cache == nil {
		return nil, false
	}
	raw, err := e.Cache.Get(ctx, e.slotsKey(ctx, date, serviceType)).Result()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (e *DefaultSchedulingEngine) storeSlots(ctx context.Context, date, serviceType string, slots []string) {
	if e.Cache == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := e.Cache.Set(ctx, e.slotsKey(ctx, date, serviceType), raw, e.CacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache slot listing", zap.String("date", date), zap.Error(err))
	}
}

func (e *DefaultSchedulingEngine) invalidateSlots(ctx context.Context, date string) {
	if e.Cache == nil {
		return
	}
	if err := e.Cache.Incr(ctx, "slotsver:"+date).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate slot cache", zap.String("date", date), zap.Error(err))
	}
}
