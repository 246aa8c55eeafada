package service

import (
	"testing"

	"admissions-scheduler/core/utils"
	"admissions-scheduler/modules/interview/entity"
	scheduleentity "admissions-scheduler/modules/schedule/entity"
)

func block(start, end string) scheduleentity.ScheduleBlock {
	return scheduleentity.ScheduleBlock{StartTime: start, EndTime: end, Active: true}
}

func busyAt(clock string, duration int) entity.BusyWindow {
	start, _ := utils.ParseClock(clock)
	return entity.BusyWindow{StartMinutes: start, DurationMinutes: duration}
}

func clocks(starts []int) []string {
	out := make([]string, len(starts))
	for i, s := range starts {
		out[i] = utils.FormatClock(s)
	}
	return out
}

func assertSlots(t *testing.T, got []int, want ...string) {
	t.Helper()
	gotClocks := clocks(got)
	if len(gotClocks) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotClocks)
	}
	for i := range want {
		if gotClocks[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotClocks)
		}
	}
}

// Monday 09:00-10:00 block, 20 minute duration, empty calendar.
func TestComputeSlotsEmptyCalendar(t *testing.T) {
	sc := NewSlotCalculator()
	starts, err := sc.Compute([]scheduleentity.ScheduleBlock{block("09:00", "10:00")}, nil, 20)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 09:40 + 20 = 10:00 lands exactly on the block end and is still valid.
	assertSlots(t, starts, "09:00", "09:20", "09:40")
}

// Same block with one scheduled interview at 09:20 for 20 minutes.
func TestComputeSlotsSkipsOccupiedWindow(t *testing.T) {
	sc := NewSlotCalculator()
	starts, err := sc.Compute(
		[]scheduleentity.ScheduleBlock{block("09:00", "10:00")},
		[]entity.BusyWindow{busyAt("09:20", 20)},
		20)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	assertSlots(t, starts, "09:00", "09:40")
}

func TestComputeSlotsBlockShorterThanDuration(t *testing.T) {
	sc := NewSlotCalculator()
	starts, err := sc.Compute([]scheduleentity.ScheduleBlock{block("09:00", "09:15")}, nil, 20)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(starts) != 0 {
		t.Fatalf("a block shorter than the duration must yield no slots, got %v", clocks(starts))
	}
}

func TestComputeSlotsNoBlocks(t *testing.T) {
	sc := NewSlotCalculator()
	starts, err := sc.Compute(nil, nil, 20)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(starts) != 0 {
		t.Fatalf("expected empty result, got %v", clocks(starts))
	}
}

func TestComputeSlotsRejectsNonPositiveDuration(t *testing.T) {
	sc := NewSlotCalculator()
	if _, err := sc.Compute([]scheduleentity.ScheduleBlock{block("09:00", "10:00")}, nil, 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

// Unordered and overlapping blocks: the result is ascending with duplicate
// candidate times collapsed.
func TestComputeSlotsSortsAndDeduplicatesAcrossBlocks(t *testing.T) {
	sc := NewSlotCalculator()
	starts, err := sc.Compute([]scheduleentity.ScheduleBlock{
		block("11:00", "12:00"),
		block("09:00", "10:00"),
		block("09:00", "10:00"),
	}, nil, 30)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	assertSlots(t, starts, "09:00", "09:30", "11:00", "11:30")
}

// Touching windows do not conflict: a busy window ending exactly at a
// candidate start leaves the candidate bookable.
func TestComputeSlotsTouchingEndpointsBookable(t *testing.T) {
	sc := NewSlotCalculator()
	starts, err := sc.Compute(
		[]scheduleentity.ScheduleBlock{block("09:00", "10:00")},
		[]entity.BusyWindow{busyAt("09:00", 20)},
		20)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	assertSlots(t, starts, "09:20", "09:40")
}

// Every slot lies fully inside its source block.
func TestComputeSlotsWithinBlockBounds(t *testing.T) {
	sc := NewSlotCalculator()
	starts, err := sc.Compute([]scheduleentity.ScheduleBlock{block("08:30", "11:45")}, nil, 45)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	blockStart, _ := utils.ParseClock("08:30")
	blockEnd, _ := utils.ParseClock("11:45")
	for _, s := range starts {
		if s < blockStart || s+45 > blockEnd {
			t.Fatalf("slot %s overflows block bounds", utils.FormatClock(s))
		}
	}
	if len(starts) == 0 {
		t.Fatal("expected at least one slot")
	}
}
