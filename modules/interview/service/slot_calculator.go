package service

import (
	"fmt"
	"sort"

	"admissions-scheduler/core/utils"
	"admissions-scheduler/modules/interview/dto"
	"admissions-scheduler/modules/interview/entity"
	scheduleentity "admissions-scheduler/modules/schedule/entity"
)

// SlotCalculator turns availability blocks and occupied windows into
// bookable start times.
type SlotCalculator struct{}

func NewSlotCalculator() *SlotCalculator {
	return &SlotCalculator{}
}

// Compute walks each block from its start to end minus the requested
// duration inclusive, stepping by the duration, and keeps the candidates
// that overlap no busy window. Blocks arrive unordered; the result is sorted
// ascending and de-duplicated across overlapping blocks. A block shorter
// than the duration contributes nothing.
func (sc *SlotCalculator) Compute(blocks []scheduleentity.ScheduleBlock, busy []entity.BusyWindow, durationMinutes int) ([]int, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	seen := make(map[int]struct{})
	var starts []int

	for _, block := range blocks {
		blockStart, err := utils.ParseClock(block.StartTime)
		if err != nil {
			return nil, fmt.Errorf("block %s start_time: %w", block.ID, err)
		}
		blockEnd, err := utils.ParseClock(block.EndTime)
		if err != nil {
			return nil, fmt.Errorf("block %s end_time: %w", block.ID, err)
		}

		// Last valid start is endTime - duration, inclusive.
		for candidate := blockStart; candidate <= blockEnd-durationMinutes; candidate += durationMinutes {
			if entity.OverlapsAny(candidate, durationMinutes, busy) {
				continue
			}
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}
			starts = append(starts, candidate)
		}
	}

	sort.Ints(starts)
	return starts, nil
}

// ToSlots renders start minutes as response slots with a display range.
func (sc *SlotCalculator) ToSlots(starts []int, durationMinutes int) []dto.Slot {
	slots := make([]dto.Slot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, dto.Slot{
			Time:    utils.FormatClock(start),
			Display: fmt.Sprintf("%s - %s", utils.FormatClock(start), utils.FormatClock(start+durationMinutes)),
		})
	}
	return slots
}
