package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"admissions-scheduler/core/database"
	apperrors "admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/core/utils"
	"admissions-scheduler/modules/interview/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const interviewColumns = `
	id, application_id, primary_interviewer_id, secondary_interviewer_id, type,
	scheduled_date, scheduled_time, duration_minutes, location, mode, status,
	notes, cancellation_reason, cancelled_by, cancelled_at, created_at, updated_at`

const blockingStatuses = `('SCHEDULED', 'CONFIRMED', 'RESCHEDULED')`

// InterviewRepository persists interviews and answers the conflict index:
// which windows an interviewer already occupies on a date.
type InterviewRepository struct {
	DB database.IDatabase
}

func NewInterviewRepository(db database.IDatabase) *InterviewRepository {
	return &InterviewRepository{DB: db}
}

type InterviewRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error)
	GetBlockingInterviews(ctx context.Context, interviewerID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.BusyWindow, error)
	CreateScheduled(ctx context.Context, interview *entity.Interview) (*entity.Interview, error)
	RescheduleSerialized(ctx context.Context, interview *entity.Interview, newDate time.Time, newTime string) (*entity.Interview, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy uuid.UUID) (*entity.Interview, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target entity.InterviewStatus) (*entity.Interview, error)
	List(ctx context.Context, filter ListFilter) ([]entity.Interview, error)
}

func (r *InterviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`

	var interview entity.Interview
	err := r.DB.GetContext(ctx, &interview, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:GetByID", err)
		return nil, err
	}
	return &interview, nil
}

type busyRow struct {
	ScheduledTime   string `db:"scheduled_time"`
	DurationMinutes int    `db:"duration_minutes"`
}

// GetBlockingInterviews returns the occupied windows for an interviewer on a
// date, counting interviews where they are primary or secondary and whose
// status blocks calendar time. excludeID omits one interview, used when that
// interview itself is being moved.
func (r *InterviewRepository) GetBlockingInterviews(ctx context.Context, interviewerID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.BusyWindow, error) {
	query := `
		SELECT scheduled_time, duration_minutes
		FROM interviews
		WHERE (primary_interviewer_id = $1 OR secondary_interviewer_id = $1)
		  AND scheduled_date = $2
		  AND status IN ` + blockingStatuses + `
		  AND ($3::uuid IS NULL OR id <> $3)
	`

	var rows []busyRow
	err := r.DB.SelectContext(ctx, &rows, query, interviewerID, date.Format("2006-01-02"), excludeID)
	if err != nil {
		logger.Error("InterviewRepository:GetBlockingInterviews", err)
		return nil, err
	}
	return busyWindows(rows)
}

// CreateScheduled inserts a new SCHEDULED interview. The write runs in a
// transaction holding per-(interviewer, date) advisory locks with a conflict
// re-check inside, so that of two concurrent bookings for the same window exactly
// one commits; the loser sees a conflict error, never silent corruption.
func (r *InterviewRepository) CreateScheduled(ctx context.Context, interview *entity.Interview) (*entity.Interview, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("InterviewRepository:CreateScheduled:Begin", err)
		return nil, err
	}
	defer tx.Rollback()

	if err := r.checkWindowFreeLocked(ctx, tx, interview, nil); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO interviews
			(application_id, primary_interviewer_id, secondary_interviewer_id, type,
			 scheduled_date, scheduled_time, duration_minutes, location, mode, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'SCHEDULED', $10)
		RETURNING ` + interviewColumns

	var created entity.Interview
	err = tx.GetContext(ctx, &created, query,
		interview.ApplicationID, interview.PrimaryInterviewerID, interview.SecondaryInterviewerID,
		interview.Type, interview.ScheduledDate.Format("2006-01-02"), interview.ScheduledTime,
		interview.DurationMinutes, interview.Location, interview.Mode, interview.Notes)
	if err != nil {
		logger.Error("InterviewRepository:CreateScheduled:Insert", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("InterviewRepository:CreateScheduled:Commit", err)
		return nil, err
	}
	return &created, nil
}

// RescheduleSerialized moves an interview to a new window under the same
// serialization scheme, excluding the interview itself from its conflict
// check. On conflict the stored row is left untouched.
func (r *InterviewRepository) RescheduleSerialized(ctx context.Context, interview *entity.Interview, newDate time.Time, newTime string) (*entity.Interview, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("InterviewRepository:RescheduleSerialized:Begin", err)
		return nil, err
	}
	defer tx.Rollback()

	moved := *interview
	moved.ScheduledDate = newDate
	moved.ScheduledTime = newTime
	if err := r.checkWindowFreeLocked(ctx, tx, &moved, &interview.ID); err != nil {
		return nil, err
	}

	query := `
		UPDATE interviews
		SET scheduled_date = $2, scheduled_time = $3, status = 'RESCHEDULED', updated_at = NOW()
		WHERE id = $1 AND status IN ` + blockingStatuses + `
		RETURNING ` + interviewColumns

	var updated entity.Interview
	err = tx.GetContext(ctx, &updated, query, interview.ID, newDate.Format("2006-01-02"), newTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:RescheduleSerialized:Update", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("InterviewRepository:RescheduleSerialized:Commit", err)
		return nil, err
	}
	return &updated, nil
}

// checkWindowFreeLocked serializes against other writers for the same
// interviewer calendars, then re-reads the blocking windows inside the
// transaction and applies the half-open overlap rule.
func (r *InterviewRepository) checkWindowFreeLocked(ctx context.Context, tx *sqlx.Tx, interview *entity.Interview, excludeID *uuid.UUID) error {
	start, err := utils.ParseClock(interview.ScheduledTime)
	if err != nil {
		return fmt.Errorf("parse scheduled time: %w", err)
	}
	date := interview.ScheduledDate.Format("2006-01-02")

	for _, interviewerID := range interview.Participants() {
		lockKey := fmt.Sprintf("interview:%s:%s", interviewerID, date)
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			logger.Error("InterviewRepository:checkWindowFreeLocked:Lock", err)
			return err
		}

		query := `
			SELECT scheduled_time, duration_minutes
			FROM interviews
			WHERE (primary_interviewer_id = $1 OR secondary_interviewer_id = $1)
			  AND scheduled_date = $2
			  AND status IN ` + blockingStatuses + `
			  AND ($3::uuid IS NULL OR id <> $3)
		`
		var rows []busyRow
		if err := tx.SelectContext(ctx, &rows, query, interviewerID, date, excludeID); err != nil {
			logger.Error("InterviewRepository:checkWindowFreeLocked:Select", err)
			return err
		}
		busy, err := busyWindows(rows)
		if err != nil {
			return err
		}
		if entity.OverlapsAny(start, interview.DurationMinutes, busy) {
			return apperrors.NewConflictError(
				"interviewer is not available at the requested time",
				apperrors.ConflictDetails{
					InterviewerID: interviewerID.String(),
					Date:          date,
					Time:          interview.ScheduledTime,
					DurationMin:   interview.DurationMinutes,
				})
		}
	}
	return nil
}

// Cancel applies the terminal cancel transition. The status predicate makes
// the update a no-op when the interview is already terminal; callers treat a
// nil result as an invalid transition.
func (r *InterviewRepository) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy uuid.UUID) (*entity.Interview, error) {
	query := `
		UPDATE interviews
		SET status = 'CANCELLED', cancellation_reason = $2, cancelled_by = $3,
		    cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status IN ` + blockingStatuses + `
		RETURNING ` + interviewColumns

	var cancelled entity.Interview
	err := r.DB.GetContext(ctx, &cancelled, query, id, reason, cancelledBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:Cancel", err)
		return nil, err
	}
	return &cancelled, nil
}

// UpdateStatus applies confirm/complete transitions with the allowed source
// states encoded in the predicate; nil result means the transition was not
// allowed from the current state.
func (r *InterviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, target entity.InterviewStatus) (*entity.Interview, error) {
	var fromClause string
	switch target {
	case entity.StatusConfirmed:
		fromClause = `('SCHEDULED', 'RESCHEDULED')`
	case entity.StatusCompleted:
		fromClause = blockingStatuses
	default:
		return nil, fmt.Errorf("unsupported status target %s", target)
	}

	query := `
		UPDATE interviews
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ` + fromClause + `
		RETURNING ` + interviewColumns

	var updated entity.Interview
	err := r.DB.GetContext(ctx, &updated, query, id, target)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:UpdateStatus", err)
		return nil, err
	}
	return &updated, nil
}

// ListFilter is the closed set of supported list predicates. Each set field
// contributes one parameterized condition; filters are never assembled from
// caller-supplied SQL fragments.
type ListFilter struct {
	Status        *entity.InterviewStatus
	Type          *entity.InterviewType
	InterviewerID *uuid.UUID
	FromDate      *time.Time
	ToDate        *time.Time
}

func (f ListFilter) predicates() (string, []any) {
	where := "1=1"
	var args []any
	n := 0

	add := func(cond string, value any) {
		n++
		where += fmt.Sprintf(" AND "+cond, n)
		args = append(args, value)
	}

	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.Type != nil {
		add("type = $%d", *f.Type)
	}
	if f.InterviewerID != nil {
		add("(primary_interviewer_id = $%[1]d OR secondary_interviewer_id = $%[1]d)", *f.InterviewerID)
	}
	if f.FromDate != nil {
		add("scheduled_date >= $%d", f.FromDate.Format("2006-01-02"))
	}
	if f.ToDate != nil {
		add("scheduled_date <= $%d", f.ToDate.Format("2006-01-02"))
	}
	return where, args
}

func (r *InterviewRepository) List(ctx context.Context, filter ListFilter) ([]entity.Interview, error) {
	where, args := filter.predicates()
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE ` + where +
		` ORDER BY scheduled_date, scheduled_time`

	var interviews []entity.Interview
	err := r.DB.SelectContext(ctx, &interviews, query, args...)
	if err != nil {
		logger.Error("InterviewRepository:List", err)
		return nil, err
	}
	return interviews, nil
}

func busyWindows(rows []busyRow) ([]entity.BusyWindow, error) {
	busy := make([]entity.BusyWindow, 0, len(rows))
	for _, row := range rows {
		start, err := utils.ParseClock(row.ScheduledTime)
		if err != nil {
			return nil, fmt.Errorf("stored scheduled_time: %w", err)
		}
		busy = append(busy, entity.BusyWindow{StartMinutes: start, DurationMinutes: row.DurationMinutes})
	}
	return busy, nil
}
