package entity

import "github.com/google/uuid"

// ApplicationContact is the display data attached to notification payloads:
// who the interview is about and which guardian to address.
type ApplicationContact struct {
	ApplicationID uuid.UUID `db:"application_id" json:"application_id"`
	StudentName   string    `db:"student_name" json:"student_name"`
	GuardianName  string    `db:"guardian_name" json:"guardian_name"`
	GuardianEmail string    `db:"guardian_email" json:"guardian_email"`
	GuardianPhone string    `db:"guardian_phone" json:"guardian_phone"`
}
