package entity

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEntry is the read projection shown on the scheduling calendar:
// one interview joined with its interviewer and applicant names.
type CalendarEntry struct {
	InterviewID          uuid.UUID `db:"interview_id" json:"interview_id"`
	ApplicationID        uuid.UUID `db:"application_id" json:"application_id"`
	StudentName          string    `db:"student_name" json:"student_name"`
	PrimaryInterviewer   string    `db:"primary_interviewer" json:"primary_interviewer"`
	SecondaryInterviewer *string   `db:"secondary_interviewer" json:"secondary_interviewer,omitempty"`
	Type                 string    `db:"type" json:"type"`
	Status               string    `db:"status" json:"status"`
	ScheduledDate        time.Time `db:"scheduled_date" json:"scheduled_date"`
	ScheduledTime        string    `db:"scheduled_time" json:"scheduled_time"`
	DurationMinutes      int       `db:"duration_minutes" json:"duration_minutes"`
	Location             string    `db:"location" json:"location"`
	Mode                 string    `db:"mode" json:"mode"`
}

// Interviewer is a directory row for pickers and notification payloads.
type Interviewer struct {
	ID       uuid.UUID `db:"id" json:"id"`
	FullName string    `db:"full_name" json:"full_name"`
	Email    string    `db:"email" json:"email"`
	Role     string    `db:"role" json:"role"`
	Active   bool      `db:"active" json:"active"`
}
