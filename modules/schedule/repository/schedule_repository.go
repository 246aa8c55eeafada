package repository

import (
	"context"
	"database/sql"
	"time"

	"admissions-scheduler/core/database"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/modules/schedule/entity"

	"github.com/google/uuid"
)

// ScheduleRepository handles schedule_blocks persistence.
type ScheduleRepository struct {
	DB database.IDatabase
}

func NewScheduleRepository(db database.IDatabase) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, block *entity.ScheduleBlock) (*entity.ScheduleBlock, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ScheduleBlock, error)
	GetBlocksFor(ctx context.Context, interviewerID uuid.UUID, date time.Time) ([]entity.ScheduleBlock, error)
	ListByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.ScheduleBlock, error)
	Update(ctx context.Context, block *entity.ScheduleBlock) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

func (r *ScheduleRepository) Create(ctx context.Context, block *entity.ScheduleBlock) (*entity.ScheduleBlock, error) {
	query := `
		INSERT INTO schedule_blocks
			(interviewer_id, kind, day_of_week, specific_date, year, start_time, end_time, active, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
		RETURNING id, interviewer_id, kind, day_of_week, specific_date, year,
		          start_time, end_time, active, notes, created_at, updated_at
	`

	var created entity.ScheduleBlock
	err := r.DB.GetContext(ctx, &created, query,
		block.InterviewerID, block.Kind, block.DayOfWeek, block.SpecificDate,
		block.Year, block.StartTime, block.EndTime, block.Notes)
	if err != nil {
		logger.Error("ScheduleRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScheduleBlock, error) {
	query := `
		SELECT id, interviewer_id, kind, day_of_week, specific_date, year,
		       start_time, end_time, active, notes, created_at, updated_at
		FROM schedule_blocks WHERE id = $1
	`

	var block entity.ScheduleBlock
	err := r.DB.GetContext(ctx, &block, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetByID", err)
		return nil, err
	}
	return &block, nil
}

// GetBlocksFor returns every active block matching the requested date:
// recurring blocks by year + weekday, specific-date blocks by exact date.
// No ordering is guaranteed; the slot calculator sorts its own output.
func (r *ScheduleRepository) GetBlocksFor(ctx context.Context, interviewerID uuid.UUID, date time.Time) ([]entity.ScheduleBlock, error) {
	query := `
		SELECT id, interviewer_id, kind, day_of_week, specific_date, year,
		       start_time, end_time, active, notes, created_at, updated_at
		FROM schedule_blocks
		WHERE interviewer_id = $1
		  AND active
		  AND year = $2
		  AND (
			(kind = 'RECURRING' AND day_of_week = $3) OR
			(kind = 'SPECIFIC_DATE' AND specific_date = $4)
		  )
	`

	var blocks []entity.ScheduleBlock
	err := r.DB.SelectContext(ctx, &blocks, query,
		interviewerID, date.Year(), int(date.Weekday()), date.Format("2006-01-02"))
	if err != nil {
		logger.Error("ScheduleRepository:GetBlocksFor", err)
		return nil, err
	}
	return blocks, nil
}

func (r *ScheduleRepository) ListByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.ScheduleBlock, error) {
	query := `
		SELECT id, interviewer_id, kind, day_of_week, specific_date, year,
		       start_time, end_time, active, notes, created_at, updated_at
		FROM schedule_blocks
		WHERE interviewer_id = $1 AND active
		ORDER BY year, day_of_week NULLS LAST, specific_date NULLS LAST, start_time
	`

	var blocks []entity.ScheduleBlock
	err := r.DB.SelectContext(ctx, &blocks, query, interviewerID)
	if err != nil {
		logger.Error("ScheduleRepository:ListByInterviewer", err)
		return nil, err
	}
	return blocks, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, block *entity.ScheduleBlock) error {
	query := `
		UPDATE schedule_blocks
		SET day_of_week = $2, specific_date = $3, start_time = $4, end_time = $5,
		    notes = $6, updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query,
		block.ID, block.DayOfWeek, block.SpecificDate, block.StartTime, block.EndTime, block.Notes)
	if err != nil {
		logger.Error("ScheduleRepository:Update", err)
		return err
	}
	return nil
}

// Deactivate soft-deletes a block. Rows referenced by history are never
// physically removed.
func (r *ScheduleRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE schedule_blocks SET active = FALSE, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("ScheduleRepository:Deactivate", err)
		return err
	}
	return nil
}
