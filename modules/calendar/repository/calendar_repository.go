package repository

import (
	"context"
	"time"

	"admissions-scheduler/core/database"
	"admissions-scheduler/modules/calendar/entity"
)

type CalendarRepositoryInterface interface {
	GetEntries(ctx context.Context, startDate, endDate time.Time) ([]entity.CalendarEntry, error)
	ListInterviewers(ctx context.Context) ([]entity.Interviewer, error)
}

type CalendarRepository struct {
	DB database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) GetEntries(ctx context.Context, startDate, endDate time.Time) ([]entity.CalendarEntry, error) {
	query := `
		SELECT i.id AS interview_id,
		       i.application_id,
		       a.student_name,
		       p.full_name AS primary_interviewer,
		       s.full_name AS secondary_interviewer,
		       i.type,
		       i.status,
		       i.scheduled_date,
		       i.scheduled_time,
		       i.duration_minutes,
		       i.location,
		       i.mode
		FROM interviews i
		JOIN applications a ON a.id = i.application_id
		JOIN interviewers p ON p.id = i.primary_interviewer_id
		LEFT JOIN interviewers s ON s.id = i.secondary_interviewer_id
		WHERE i.scheduled_date BETWEEN $1 AND $2
		ORDER BY i.scheduled_date, i.scheduled_time`

	entries := []entity.CalendarEntry{}
	if err := r.DB.SelectContext(ctx, &entries, query, startDate, endDate); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CalendarRepository) ListInterviewers(ctx context.Context) ([]entity.Interviewer, error) {
	query := `
		SELECT id, full_name, email, role, active
		FROM interviewers
		WHERE active
		ORDER BY full_name`

	interviewers := []entity.Interviewer{}
	if err := r.DB.SelectContext(ctx, &interviewers, query); err != nil {
		return nil, err
	}
	return interviewers, nil
}
