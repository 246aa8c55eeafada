package dto

import "admissions-scheduler/modules/evaluation/entity"

// CompleteEvaluationRequest records a score; interview_id, when present,
// also completes the interview the evaluation came from.
type CompleteEvaluationRequest struct {
	Score       float64 `json:"score" validate:"required"`
	MaxScore    float64 `json:"max_score" validate:"required"`
	InterviewID string  `json:"interview_id"`
}

type EvaluationResponse struct {
	Evaluation *entity.Evaluation `json:"evaluation"`
}

type EvaluationListResponse struct {
	Evaluations []entity.Evaluation `json:"evaluations"`
}
