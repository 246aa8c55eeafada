package service

import (
	"context"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/core/utils"
	"admissions-scheduler/modules/schedule/dto"
	"admissions-scheduler/modules/schedule/entity"
	"admissions-scheduler/modules/schedule/repository"

	"github.com/google/uuid"
)

type ScheduleServiceInterface interface {
	CreateBlock(ctx context.Context, req *dto.CreateBlockRequest) (*entity.ScheduleBlock, *errors.AppError)
	UpdateBlock(ctx context.Context, id uuid.UUID, req *dto.UpdateBlockRequest) (*entity.ScheduleBlock, *errors.AppError)
	DeactivateBlock(ctx context.Context, id uuid.UUID) *errors.AppError
	ListBlocks(ctx context.Context, interviewerID uuid.UUID) ([]entity.ScheduleBlock, *errors.AppError)
	GetBlocksFor(ctx context.Context, interviewerID uuid.UUID, date time.Time) ([]entity.ScheduleBlock, *errors.AppError)
}

type ScheduleService struct {
	repo  repository.ScheduleRepositoryInterface
	cache cache.Cache
	guard *breaker.Guard
	tz    *time.Location
}

func NewScheduleService(repo repository.ScheduleRepositoryInterface, c cache.Cache, guard *breaker.Guard, tz *time.Location) *ScheduleService {
	if tz == nil {
		tz = time.Local
	}
	return &ScheduleService{repo: repo, cache: c, guard: guard, tz: tz}
}

func (s *ScheduleService) CreateBlock(ctx context.Context, req *dto.CreateBlockRequest) (*entity.ScheduleBlock, *errors.AppError) {
	interviewerID, err := uuid.Parse(req.InterviewerID)
	if err != nil {
		return nil, errors.NewValidationError("interviewer_id must be a valid uuid")
	}

	block := &entity.ScheduleBlock{
		InterviewerID: interviewerID,
		Kind:          entity.BlockKind(req.Kind),
		DayOfWeek:     req.DayOfWeek,
		Year:          req.Year,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Notes:         req.Notes,
	}

	if req.SpecificDate != "" {
		date, err := time.ParseInLocation("2006-01-02", req.SpecificDate, s.tz)
		if err != nil {
			return nil, errors.NewValidationError("specific_date must be YYYY-MM-DD")
		}
		block.SpecificDate = &date
	}

	if appErr := validateBlock(block); appErr != nil {
		return nil, appErr
	}

	created, err := breaker.Do(ctx, s.guard, breaker.ClassWrite, func(ctx context.Context) (*entity.ScheduleBlock, error) {
		return s.repo.Create(ctx, block)
	})
	if err != nil {
		return nil, asAppError(err, "failed to create schedule block")
	}

	s.invalidateScopes(ctx, interviewerID)
	logger.Info("ScheduleService:CreateBlock:Success", "block_id", created.ID, "interviewer_id", interviewerID)
	return created, nil
}

func (s *ScheduleService) UpdateBlock(ctx context.Context, id uuid.UUID, req *dto.UpdateBlockRequest) (*entity.ScheduleBlock, *errors.AppError) {
	block, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) (*entity.ScheduleBlock, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, asAppError(err, "failed to load schedule block")
	}
	if block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "schedule block not found", nil)
	}

	if req.DayOfWeek != nil {
		block.DayOfWeek = req.DayOfWeek
	}
	if req.SpecificDate != "" {
		date, err := time.ParseInLocation("2006-01-02", req.SpecificDate, s.tz)
		if err != nil {
			return nil, errors.NewValidationError("specific_date must be YYYY-MM-DD")
		}
		block.SpecificDate = &date
	}
	if req.StartTime != "" {
		block.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		block.EndTime = req.EndTime
	}
	if req.Notes != nil {
		block.Notes = *req.Notes
	}

	if appErr := validateBlock(block); appErr != nil {
		return nil, appErr
	}

	err = s.guard.Execute(ctx, breaker.ClassWrite, func(ctx context.Context) error {
		return s.repo.Update(ctx, block)
	})
	if err != nil {
		return nil, asAppError(err, "failed to update schedule block")
	}

	s.invalidateScopes(ctx, block.InterviewerID)
	return block, nil
}

func (s *ScheduleService) DeactivateBlock(ctx context.Context, id uuid.UUID) *errors.AppError {
	block, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) (*entity.ScheduleBlock, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return asAppError(err, "failed to load schedule block")
	}
	if block == nil {
		return errors.NewAppError(errors.ErrNotFound, "schedule block not found", nil)
	}

	err = s.guard.Execute(ctx, breaker.ClassWrite, func(ctx context.Context) error {
		return s.repo.Deactivate(ctx, id)
	})
	if err != nil {
		return asAppError(err, "failed to deactivate schedule block")
	}

	s.invalidateScopes(ctx, block.InterviewerID)
	logger.Info("ScheduleService:DeactivateBlock:Success", "block_id", id)
	return nil
}

func (s *ScheduleService) ListBlocks(ctx context.Context, interviewerID uuid.UUID) ([]entity.ScheduleBlock, *errors.AppError) {
	blocks, err := breaker.Do(ctx, s.guard, breaker.ClassMedium, func(ctx context.Context) ([]entity.ScheduleBlock, error) {
		return s.repo.ListByInterviewer(ctx, interviewerID)
	})
	if err != nil {
		return nil, asAppError(err, "failed to list schedule blocks")
	}
	return blocks, nil
}

func (s *ScheduleService) GetBlocksFor(ctx context.Context, interviewerID uuid.UUID, date time.Time) ([]entity.ScheduleBlock, *errors.AppError) {
	blocks, err := breaker.Do(ctx, s.guard, breaker.ClassMedium, func(ctx context.Context) ([]entity.ScheduleBlock, error) {
		return s.repo.GetBlocksFor(ctx, interviewerID, date)
	})
	if err != nil {
		return nil, asAppError(err, "failed to load schedule blocks")
	}
	return blocks, nil
}

// invalidateScopes drops cached slot and calendar reads that a block write
// could change. Runs before the call returns; TTL alone is never relied on.
func (s *ScheduleService) invalidateScopes(ctx context.Context, interviewerID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, cache.SlotsPattern(interviewerID.String())); err != nil {
		logger.Warn("ScheduleService:Invalidate:Slots", "error", err)
	}
	if err := s.cache.Invalidate(ctx, cache.CalendarPattern()); err != nil {
		logger.Warn("ScheduleService:Invalidate:Calendar", "error", err)
	}
}

func validateBlock(block *entity.ScheduleBlock) *errors.AppError {
	start, err := utils.ParseClock(block.StartTime)
	if err != nil {
		return errors.NewValidationError("start_time must be HH:MM")
	}
	end, err := utils.ParseClock(block.EndTime)
	if err != nil {
		return errors.NewValidationError("end_time must be HH:MM")
	}
	if start >= end {
		return errors.NewValidationError("start_time must be before end_time")
	}
	if block.Year < 2000 || block.Year > 2100 {
		return errors.NewValidationError("year out of range")
	}

	switch block.Kind {
	case entity.BlockKindRecurring:
		if block.DayOfWeek == nil || block.SpecificDate != nil {
			return errors.NewValidationError("RECURRING blocks set day_of_week and no specific_date")
		}
		if *block.DayOfWeek < 0 || *block.DayOfWeek > 6 {
			return errors.NewValidationError("day_of_week must be 0-6")
		}
	case entity.BlockKindSpecificDate:
		if block.SpecificDate == nil || block.DayOfWeek != nil {
			return errors.NewValidationError("SPECIFIC_DATE blocks set specific_date and no day_of_week")
		}
	default:
		return errors.NewValidationError("kind must be RECURRING or SPECIFIC_DATE")
	}
	return nil
}

func asAppError(err error, fallback string) *errors.AppError {
	if ae, ok := err.(*errors.AppError); ok {
		return ae
	}
	return errors.NewAppError(errors.ErrInternalServer, fallback, err)
}
