package dto

import "admissions-scheduler/modules/calendar/entity"

type CalendarResponse struct {
	Entries []entity.CalendarEntry `json:"entries"`
}

type InterviewerListResponse struct {
	Interviewers []entity.Interviewer `json:"interviewers"`
}
