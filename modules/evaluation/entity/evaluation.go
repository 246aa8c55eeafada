package entity

import (
	"time"

	"github.com/google/uuid"

	interviewentity "admissions-scheduler/modules/interview/entity"
)

type EvaluationType string

const (
	TypeFamilyInterview        EvaluationType = "FAMILY_INTERVIEW"
	TypeCycleDirectorInterview EvaluationType = "CYCLE_DIRECTOR_INTERVIEW"
	TypeCycleDirectorReport    EvaluationType = "CYCLE_DIRECTOR_REPORT"
	TypePsychologicalInterview EvaluationType = "PSYCHOLOGICAL_INTERVIEW"
)

type EvaluationStatus string

const (
	StatusPending   EvaluationStatus = "PENDING"
	StatusCompleted EvaluationStatus = "COMPLETED"
)

// Evaluation is a pending or completed assessment owed by one evaluator for
// one application. (application_id, evaluator_id, evaluation_type) is unique;
// re-inserting an existing stub is a no-op, not an error.
type Evaluation struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	ApplicationID uuid.UUID        `db:"application_id" json:"application_id"`
	EvaluatorID   uuid.UUID        `db:"evaluator_id" json:"evaluator_id"`
	Type          EvaluationType   `db:"evaluation_type" json:"evaluation_type"`
	Status        EvaluationStatus `db:"status" json:"status"`
	Score         *float64         `db:"score" json:"score,omitempty"`
	MaxScore      *float64         `db:"max_score" json:"max_score,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// TypesForInterview maps an interview type to the evaluation stubs each
// participant owes. Cycle-director interviews additionally require a written
// report; every other non-family type reduces to a psychological interview.
func TypesForInterview(interviewType interviewentity.InterviewType) []EvaluationType {
	switch interviewType {
	case interviewentity.TypeFamily:
		return []EvaluationType{TypeFamilyInterview}
	case interviewentity.TypeCycleDirector:
		return []EvaluationType{TypeCycleDirectorInterview, TypeCycleDirectorReport}
	default:
		return []EvaluationType{TypePsychologicalInterview}
	}
}
