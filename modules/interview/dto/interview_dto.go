package dto

import "admissions-scheduler/modules/interview/entity"

// ===================== Request DTOs =====================

// BookInterviewRequest creates a new interview for an application.
type BookInterviewRequest struct {
	ApplicationID          string `json:"application_id" validate:"required"`
	Type                   string `json:"type" validate:"required"`
	PrimaryInterviewerID   string `json:"primary_interviewer_id" validate:"required"`
	SecondaryInterviewerID string `json:"secondary_interviewer_id"`
	ScheduledDate          string `json:"scheduled_date" validate:"required"` // YYYY-MM-DD
	ScheduledTime          string `json:"scheduled_time" validate:"required"` // HH:MM
	DurationMinutes        int    `json:"duration_minutes" validate:"required,min=1"`
	Location               string `json:"location"`
	Mode                   string `json:"mode"`
	Notes                  string `json:"notes"`
}

type CancelInterviewRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RescheduleInterviewRequest struct {
	NewDate string `json:"new_date" validate:"required"` // YYYY-MM-DD
	NewTime string `json:"new_time" validate:"required"` // HH:MM
	Reason  string `json:"reason"`
}

// ListInterviewsQuery carries the supported list filters. Each non-empty
// field becomes one parameterized predicate; there is no free-form filter.
type ListInterviewsQuery struct {
	Status        string `query:"status"`
	Type          string `query:"type"`
	InterviewerID string `query:"interviewer_id"`
	FromDate      string `query:"from"` // YYYY-MM-DD
	ToDate        string `query:"to"`   // YYYY-MM-DD
}

// ===================== Response DTOs =====================

// Slot is one bookable start time.
type Slot struct {
	Time    string `json:"time"`    // HH:MM
	Display string `json:"display"` // e.g. "09:00 - 09:20"
}

type SlotsResponse struct {
	AvailableSlots []Slot `json:"availableSlots"`
	// NoAvailability distinguishes "no schedule block covers this date"
	// from "blocks exist but every candidate is taken".
	NoAvailability bool `json:"no_availability,omitempty"`
}

type InterviewResponse struct {
	Interview *entity.Interview `json:"interview"`
}

type InterviewListResponse struct {
	Interviews []entity.Interview `json:"interviews"`
}
