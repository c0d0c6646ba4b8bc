package scheduling

import (
	"testing"

	"dencare/models"
)

func TestGenerateSlots_MondayCleaning(t *testing.T) {
	// Monday 09:00-17:00, cleaning (60 min) at a 30 min stride:
	// 09:00 through 16:00 inclusive.
	day := models.DayHours{Open: 9 * 60, Close: 17 * 60}
	slots := GenerateSlots(day, 60, 30)

	if len(slots) != 15 {
		t.Fatalf("expected 15 slots, got %d", len(slots))
	}
	if slots[0] != 9*60 {
		t.Fatalf("expected first slot 09:00, got %s", MinutesToClock(slots[0]))
	}
	if slots[len(slots)-1] != 16*60 {
		t.Fatalf("expected last slot 16:00, got %s", MinutesToClock(slots[len(slots)-1]))
	}
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	if slots := GenerateSlots(models.DayHours{}, 60, 30); len(slots) != 0 {
		t.Fatalf("expected no slots on a closed day, got %d", len(slots))
	}
}

func TestGenerateSlots_DurationMustFit(t *testing.T) {
	// Saturday 09:00-14:00 with a 90 minute whitening: the last start
	// that still ends by close is 12:30.
	day := models.DayHours{Open: 9 * 60, Close: 14 * 60}
	slots := GenerateSlots(day, 90, 30)
	last := slots[len(slots)-1]
	if last != 12*60+30 {
		t.Fatalf("expected last slot 12:30, got %s", MinutesToClock(last))
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{540, 600}, Interval{540, 600}, true},
		{"contained", Interval{540, 600}, Interval{550, 560}, true},
		{"partial overlap", Interval{540, 600}, Interval{570, 630}, true},
		{"touching ends", Interval{540, 600}, Interval{600, 660}, false},
		{"touching starts", Interval{540, 600}, Interval{480, 540}, false},
		{"disjoint", Interval{540, 600}, Interval{700, 760}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestFilterAvailable_BookedSlotRemoved(t *testing.T) {
	// A 60-minute booking at 09:00 removes 09:00 and 09:30 for another
	// 60-minute service, but a 30-minute slot at 10:00 stays free.
	day := models.DayHours{Open: 9 * 60, Close: 17 * 60}
	booked := []Interval{{Start: 9 * 60, End: 10 * 60}}

	free := FilterAvailable(GenerateSlots(day, 60, 30), 60, booked)
	for _, start := range free {
		if start == 9*60 || start == 9*60+30 {
			t.Fatalf("slot %s should conflict with the 09:00-10:00 booking", MinutesToClock(start))
		}
	}
	if free[0] != 10*60 {
		t.Fatalf("expected first free slot 10:00, got %s", MinutesToClock(free[0]))
	}
}

func TestFilterAvailable_AdjacentSlotSurvives(t *testing.T) {
	// Booking [09:00, 10:00) leaves a 30-minute checkup at 09:30
	// conflicted, but one at 10:00 free, and a 30-minute slot ending at
	// exactly 09:00 would also be free.
	booked := []Interval{{Start: 9 * 60, End: 10 * 60}}
	candidates := []int{8*60 + 30, 9 * 60, 9*60 + 30, 10 * 60}

	free := FilterAvailable(candidates, 30, booked)
	want := []int{8*60 + 30, 10 * 60}
	if len(free) != len(want) {
		t.Fatalf("expected %d free slots, got %v", len(want), free)
	}
	for i := range want {
		if free[i] != want[i] {
			t.Fatalf("expected free slots %v, got %v", want, free)
		}
	}
}

func TestBookedIntervals_SkipsCancelled(t *testing.T) {
	appts := []models.Appointment{
		{Start: 9 * 60, Duration: 60, Status: models.StatusScheduled},
		{Start: 11 * 60, Duration: 30, Status: models.StatusCancelled},
		{Start: 13 * 60, Duration: 30, Status: models.StatusConfirmed, IsDeleted: true},
	}
	booked := BookedIntervals(appts)
	if len(booked) != 1 {
		t.Fatalf("expected only the scheduled appointment to block, got %v", booked)
	}
	if booked[0].Start != 9*60 || booked[0].End != 10*60 {
		t.Fatalf("unexpected interval %v", booked[0])
	}
}

func TestClockConversions(t *testing.T) {
	tests := []struct {
		clock   string
		minutes int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"16:30", 990, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"09:61", 0, true},
		{"garbage", 0, true},
	}
	for _, tt := range tests {
		got, err := ClockToMinutes(tt.clock)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ClockToMinutes(%q): expected error", tt.clock)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ClockToMinutes(%q): %v", tt.clock, err)
		}
		if got != tt.minutes {
			t.Fatalf("ClockToMinutes(%q) = %d, want %d", tt.clock, got, tt.minutes)
		}
		if back := MinutesToClock(got); back != tt.clock {
			t.Fatalf("MinutesToClock(%d) = %q, want %q", got, back, tt.clock)
		}
	}
}
