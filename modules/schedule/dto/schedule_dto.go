package dto

import "admissions-scheduler/modules/schedule/entity"

// CreateBlockRequest declares a new availability block for an interviewer.
type CreateBlockRequest struct {
	InterviewerID string `json:"interviewer_id" validate:"required"`
	Kind          string `json:"kind" validate:"required"`
	DayOfWeek     *int   `json:"day_of_week"`
	SpecificDate  string `json:"specific_date"` // YYYY-MM-DD
	Year          int    `json:"year" validate:"required"`
	StartTime     string `json:"start_time" validate:"required"` // HH:MM
	EndTime       string `json:"end_time" validate:"required"`   // HH:MM
	Notes         string `json:"notes"`
}

// UpdateBlockRequest edits the temporal fields of an existing block.
type UpdateBlockRequest struct {
	DayOfWeek    *int   `json:"day_of_week"`
	SpecificDate string `json:"specific_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Notes        *string `json:"notes"`
}

type BlockResponse struct {
	Block *entity.ScheduleBlock `json:"block"`
}

type BlockListResponse struct {
	Blocks []entity.ScheduleBlock `json:"blocks"`
}
