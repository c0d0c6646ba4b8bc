package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
)

// memoryApptRepo honors the Repository contract in memory: commits are
// serialized under one lock, so the availability recheck and the insert
// are indivisible exactly like the store transaction.
type memoryApptRepo struct {
	mu    sync.Mutex
	appts []models.Appointment
}

func (r *memoryApptRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id && !r.appts[i].IsDeleted {
			appt := r.appts[i]
			return &appt, nil
		}
	}
	return nil, errors.New("appointment not found")
}

func (r *memoryApptRepo) committedLocked(date string) []models.Appointment {
	var out []models.Appointment
	for _, a := range r.appts {
		if a.Date == date && a.Blocks() {
			out = append(out, a)
		}
	}
	return out
}

func (r *memoryApptRepo) ListCommitted(ctx context.Context, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committedLocked(date), nil
}

func (r *memoryApptRepo) ListForUser(ctx context.Context, userID, fromDate string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.UserID == userID && !a.IsDeleted && a.Date >= fromDate {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryApptRepo) ListDueReminders(ctx context.Context, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.Date == date && a.Status == models.StatusScheduled && !a.IsDeleted && !a.ReminderSent {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryApptRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id && !r.appts[i].ReminderSent {
			r.appts[i].ReminderSent = true
			r.appts[i].ReminderSentAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryApptRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id && !r.appts[i].IsDeleted {
			r.appts[i].Status = status
			r.appts[i].UpdatedAt = time.Now()
			appt := r.appts[i]
			return &appt, nil
		}
	}
	return nil, errors.New("appointment not found")
}

func (r *memoryApptRepo) CountOverdue(ctx context.Context, before string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.appts {
		if a.Date < before && a.Status == models.StatusScheduled && !a.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *memoryApptRepo) CountScheduled(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.appts {
		if a.Status == models.StatusScheduled && !a.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *memoryApptRepo) BookTransactionally(ctx context.Context, appt *models.Appointment, stillAvailable func(committed []models.Appointment) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !stillAvailable(r.committedLocked(appt.Date)) {
		return appointmentRepo.ErrUnavailable
	}
	r.appts = append(r.appts, *appt)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	booked  []string
	updated []string
}

func (n *recordingNotifier) AppointmentBooked(ctx context.Context, appt *models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, appt.ID)
}

func (n *recordingNotifier) AppointmentStatusChanged(ctx context.Context, appt *models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated = append(n.updated, appt.ID)
}

func newTestEngine(repo *memoryApptRepo, notifier *recordingNotifier) *DefaultSchedulingEngine {
	return &DefaultSchedulingEngine{
		Repo:     repo,
		Hours:    models.DefaultWorkingHours(),
		Catalog:  models.DefaultServiceCatalog(),
		Stride:   30,
		Location: time.UTC,
		Notifier: notifier,
	}
}

func TestAvailableSlots_MondayCleaningScenario(t *testing.T) {
	engine := newTestEngine(&memoryApptRepo{}, &recordingNotifier{})

	// 2026-09-07 is a Monday.
	slots, err := engine.AvailableSlots(context.Background(), "2026-09-07", "cleaning")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "09:00" || slots[len(slots)-1] != "16:00" {
		t.Fatalf("expected 09:00..16:00, got %v", slots)
	}
}

func TestAvailableSlots_SundayClosed(t *testing.T) {
	engine := newTestEngine(&memoryApptRepo{}, &recordingNotifier{})

	slots, err := engine.AvailableSlots(context.Background(), "2026-09-06", "checkup")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on Sunday, got %v", slots)
	}
}

func TestAvailableSlots_MalformedDate(t *testing.T) {
	engine := newTestEngine(&memoryApptRepo{}, &recordingNotifier{})

	if _, err := engine.AvailableSlots(context.Background(), "07/09/2026", "checkup"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBook_RemovesSlotButKeepsNonOverlapping(t *testing.T) {
	repo := &memoryApptRepo{}
	notifier := &recordingNotifier{}
	engine := newTestEngine(repo, notifier)
	ctx := context.Background()

	appt, err := engine.Book(ctx, BookingRequest{
		UserID:      "user-a",
		ServiceType: "cleaning",
		Date:        "2026-09-07",
		Time:        "09:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Status != models.StatusScheduled || appt.Duration != 60 {
		t.Fatalf("unexpected appointment %+v", appt)
	}
	if len(notifier.booked) != 1 {
		t.Fatalf("expected one confirmation notification, got %d", len(notifier.booked))
	}

	slots, err := engine.AvailableSlots(ctx, "2026-09-07", "checkup")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	for _, s := range slots {
		if s == "09:00" || s == "09:30" {
			t.Fatalf("slot %s should be blocked by the 09:00-10:00 cleaning", s)
		}
	}
	// A 30-minute checkup at 10:00 does not overlap [09:00, 10:00).
	if slots[0] != "10:00" {
		t.Fatalf("expected 10:00 to stay available, got %v", slots[0])
	}
}

func TestBook_UnknownServiceUsesDefaultDuration(t *testing.T) {
	repo := &memoryApptRepo{}
	engine := newTestEngine(repo, &recordingNotifier{})

	appt, err := engine.Book(context.Background(), BookingRequest{
		UserID:      "user-a",
		ServiceType: "mystery",
		Date:        "2026-09-07",
		Time:        "09:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Duration != models.DefaultServiceDuration {
		t.Fatalf("expected default duration %d, got %d", models.DefaultServiceDuration, appt.Duration)
	}
}

func TestBook_RejectsOffGridAndClosedTimes(t *testing.T) {
	engine := newTestEngine(&memoryApptRepo{}, &recordingNotifier{})
	ctx := context.Background()

	tests := []struct {
		name string
		date string
		at   string
	}{
		{"off stride", "2026-09-07", "09:10"},
		{"before open", "2026-09-07", "08:00"},
		{"would run past close", "2026-09-07", "16:30"},
		{"closed day", "2026-09-06", "09:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Book(ctx, BookingRequest{
				UserID:      "user-a",
				ServiceType: "cleaning",
				Date:        tt.date,
				Time:        tt.at,
			})
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestBook_ConcurrentSameSlotOneWinner(t *testing.T) {
	repo := &memoryApptRepo{}
	engine := newTestEngine(repo, &recordingNotifier{})
	ctx := context.Background()

	start := make(chan struct{})
	results := make(chan error, 2)
	for _, user := range []string{"user-a", "user-b"} {
		go func(userID string) {
			<-start
			_, err := engine.Book(ctx, BookingRequest{
				UserID:      userID,
				ServiceType: "cleaning",
				Date:        "2026-09-07",
				Time:        "09:00",
			})
			results <- err
		}(user)
	}
	close(start)

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", successes, conflicts)
	}
}

func TestBook_NoOverlappingCommitsEver(t *testing.T) {
	repo := &memoryApptRepo{}
	engine := newTestEngine(repo, &recordingNotifier{})
	ctx := context.Background()

	// Hammer one day with overlapping requests; the committed set must
	// stay pairwise disjoint.
	var wg sync.WaitGroup
	times := []string{"09:00", "09:30", "10:00", "09:00", "09:30", "10:00", "10:30"}
	for i, at := range times {
		wg.Add(1)
		go func(userID int, at string) {
			defer wg.Done()
			engine.Book(ctx, BookingRequest{
				UserID:      "user",
				ServiceType: "cleaning",
				Date:        "2026-09-08",
				Time:        at,
			})
		}(i, at)
	}
	wg.Wait()

	committed, _ := repo.ListCommitted(ctx, "2026-09-08")
	for i := 0; i < len(committed); i++ {
		for j := i + 1; j < len(committed); j++ {
			a := Interval{Start: committed[i].Start, End: committed[i].End()}
			b := Interval{Start: committed[j].Start, End: committed[j].End()}
			if Overlaps(a, b) {
				t.Fatalf("committed appointments overlap: %v and %v", a, b)
			}
		}
	}
}

func TestUpdateStatus_NotifiesAndValidates(t *testing.T) {
	repo := &memoryApptRepo{}
	notifier := &recordingNotifier{}
	engine := newTestEngine(repo, notifier)
	ctx := context.Background()

	appt, err := engine.Book(ctx, BookingRequest{
		UserID:      "user-a",
		ServiceType: "checkup",
		Date:        "2026-09-07",
		Time:        "09:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if _, err := engine.UpdateStatus(ctx, appt.ID, "vanished"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}

	updated, err := engine.UpdateStatus(ctx, appt.ID, models.StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}
	if len(notifier.updated) != 1 {
		t.Fatalf("expected one status notification, got %d", len(notifier.updated))
	}
}

func TestGetAppointment_GenericDenial(t *testing.T) {
	repo := &memoryApptRepo{}
	engine := newTestEngine(repo, &recordingNotifier{})
	ctx := context.Background()

	appt, err := engine.Book(ctx, BookingRequest{
		UserID:      "user-a",
		ServiceType: "checkup",
		Date:        "2026-09-07",
		Time:        "09:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	// Foreign record and missing record surface identically.
	if _, err := engine.GetAppointment(ctx, appt.ID, "user-b", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign record, got %v", err)
	}
	if _, err := engine.GetAppointment(ctx, "no-such-id", "user-b", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing record, got %v", err)
	}
	// Admins see everything.
	if _, err := engine.GetAppointment(ctx, appt.ID, "staff", true); err != nil {
		t.Fatalf("admin access failed: %v", err)
	}
}
