package entity

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	StatusScheduled   InterviewStatus = "SCHEDULED"
	StatusConfirmed   InterviewStatus = "CONFIRMED"
	StatusCompleted   InterviewStatus = "COMPLETED"
	StatusCancelled   InterviewStatus = "CANCELLED"
	StatusRescheduled InterviewStatus = "RESCHEDULED"
)

type InterviewType string

const (
	TypeFamily        InterviewType = "FAMILY"
	TypeStudent       InterviewType = "STUDENT"
	TypeDirector      InterviewType = "DIRECTOR"
	TypePsychologist  InterviewType = "PSYCHOLOGIST"
	TypeAcademic      InterviewType = "ACADEMIC"
	TypeCycleDirector InterviewType = "CYCLE_DIRECTOR"
)

func (t InterviewType) Valid() bool {
	switch t {
	case TypeFamily, TypeStudent, TypeDirector, TypePsychologist, TypeAcademic, TypeCycleDirector:
		return true
	}
	return false
}

type InterviewMode string

const (
	ModeInPerson InterviewMode = "IN_PERSON"
	ModeVirtual  InterviewMode = "VIRTUAL"
	ModeHybrid   InterviewMode = "HYBRID"
)

// Interview is a scheduled meeting tied to one application. Status is
// mutated only through the lifecycle service; while blocking, its
// [scheduled_time, scheduled_time+duration) window occupies both
// interviewer calendars.
type Interview struct {
	ID                     uuid.UUID       `db:"id" json:"id"`
	ApplicationID          uuid.UUID       `db:"application_id" json:"application_id"`
	PrimaryInterviewerID   uuid.UUID       `db:"primary_interviewer_id" json:"primary_interviewer_id"`
	SecondaryInterviewerID *uuid.UUID      `db:"secondary_interviewer_id" json:"secondary_interviewer_id,omitempty"`
	Type                   InterviewType   `db:"type" json:"type"`
	ScheduledDate          time.Time       `db:"scheduled_date" json:"scheduled_date"`
	ScheduledTime          string          `db:"scheduled_time" json:"scheduled_time"`
	DurationMinutes        int             `db:"duration_minutes" json:"duration_minutes"`
	Location               string          `db:"location" json:"location"`
	Mode                   InterviewMode   `db:"mode" json:"mode"`
	Status                 InterviewStatus `db:"status" json:"status"`
	Notes                  string          `db:"notes" json:"notes"`
	CancellationReason     *string         `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledBy            *uuid.UUID      `db:"cancelled_by" json:"cancelled_by,omitempty"`
	CancelledAt            *time.Time      `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt              time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updated_at"`
}

// Participants lists the one or two interviewer ids on the interview.
func (i *Interview) Participants() []uuid.UUID {
	ids := []uuid.UUID{i.PrimaryInterviewerID}
	if i.SecondaryInterviewerID != nil {
		ids = append(ids, *i.SecondaryInterviewerID)
	}
	return ids
}

// IsBlocking reports whether the interview currently occupies calendar time.
func (s InterviewStatus) IsBlocking() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusRescheduled
}

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s InterviewStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo encodes the lifecycle state machine: cancel, reschedule,
// confirm and complete all start from a blocking, non-terminal status.
func (s InterviewStatus) CanTransitionTo(target InterviewStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case StatusCancelled, StatusRescheduled, StatusCompleted:
		return s == StatusScheduled || s == StatusConfirmed || s == StatusRescheduled
	case StatusConfirmed:
		return s == StatusScheduled || s == StatusRescheduled
	}
	return false
}

// BusyWindow is one occupied stretch of an interviewer's day, in minutes
// since midnight.
type BusyWindow struct {
	StartMinutes    int
	DurationMinutes int
}

// Overlaps applies the half-open interval rule: [s1, s1+d1) and [s2, s2+d2)
// overlap iff s1 < s2+d2 && s2 < s1+d1. Touching endpoints do not overlap.
func Overlaps(s1, d1, s2, d2 int) bool {
	return s1 < s2+d2 && s2 < s1+d1
}

// OverlapsAny reports whether the window [start, start+duration) collides
// with any busy window.
func OverlapsAny(start, duration int, busy []BusyWindow) bool {
	for _, w := range busy {
		if Overlaps(start, duration, w.StartMinutes, w.DurationMinutes) {
			return true
		}
	}
	return false
}
