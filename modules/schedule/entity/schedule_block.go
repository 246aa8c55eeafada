package entity

import (
	"time"

	"github.com/google/uuid"
)

// BlockKind distinguishes weekly recurring availability from availability
// declared for one calendar date.
type BlockKind string

const (
	BlockKindRecurring    BlockKind = "RECURRING"
	BlockKindSpecificDate BlockKind = "SPECIFIC_DATE"
)

// ScheduleBlock is one declared interval of interviewer availability.
// Exactly one of DayOfWeek/SpecificDate is set, matching Kind. Blocks are
// soft-deleted via Active=false and never removed while referenced.
type ScheduleBlock struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	InterviewerID uuid.UUID  `db:"interviewer_id" json:"interviewer_id"`
	Kind          BlockKind  `db:"kind" json:"kind"`
	DayOfWeek     *int       `db:"day_of_week" json:"day_of_week,omitempty"`
	SpecificDate  *time.Time `db:"specific_date" json:"specific_date,omitempty"`
	Year          int        `db:"year" json:"year"`
	StartTime     string     `db:"start_time" json:"start_time"`
	EndTime       string     `db:"end_time" json:"end_time"`
	Active        bool       `db:"active" json:"active"`
	Notes         string     `db:"notes" json:"notes"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Matches reports whether the block applies to the given date.
func (b *ScheduleBlock) Matches(date time.Time) bool {
	if !b.Active || b.Year != date.Year() {
		return false
	}
	switch b.Kind {
	case BlockKindRecurring:
		return b.DayOfWeek != nil && *b.DayOfWeek == int(date.Weekday())
	case BlockKindSpecificDate:
		return b.SpecificDate != nil &&
			b.SpecificDate.Year() == date.Year() &&
			b.SpecificDate.Month() == date.Month() &&
			b.SpecificDate.Day() == date.Day()
	}
	return false
}
