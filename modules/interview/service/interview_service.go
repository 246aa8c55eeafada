package service

import (
	"context"
	"encoding/json"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/core/utils"
	"admissions-scheduler/modules/interview/dto"
	"admissions-scheduler/modules/interview/entity"
	"admissions-scheduler/modules/interview/repository"
	scheduleentity "admissions-scheduler/modules/schedule/entity"

	"github.com/google/uuid"
)

// BlockProvider supplies the availability blocks matching one date.
type BlockProvider interface {
	GetBlocksFor(ctx context.Context, interviewerID uuid.UUID, date time.Time) ([]scheduleentity.ScheduleBlock, *errors.AppError)
}

// EvaluationCascade creates the dependent evaluation stubs for a booked
// interview. Implementations isolate per-participant failures.
type EvaluationCascade interface {
	CreateStubsForInterview(ctx context.Context, interview *entity.Interview) error
}

// NotificationDispatcher hands lifecycle notifications to the background
// queue. Dispatch failures never change an already-committed outcome.
type NotificationDispatcher interface {
	DispatchBooked(ctx context.Context, interview *entity.Interview) error
	DispatchCancelled(ctx context.Context, interview *entity.Interview) error
	DispatchRescheduled(ctx context.Context, interview *entity.Interview, oldDate time.Time, oldTime string) error
}

type InterviewServiceInterface interface {
	ComputeSlots(ctx context.Context, interviewerID uuid.UUID, date time.Time, durationMinutes int) (*dto.SlotsResponse, *errors.AppError)
	Book(ctx context.Context, req *dto.BookInterviewRequest) (*entity.Interview, *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy uuid.UUID) (*entity.Interview, *errors.AppError)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleInterviewRequest) (*entity.Interview, *errors.AppError)
	Confirm(ctx context.Context, id uuid.UUID) (*entity.Interview, *errors.AppError)
	Complete(ctx context.Context, id uuid.UUID) (*entity.Interview, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, *errors.AppError)
	List(ctx context.Context, query *dto.ListInterviewsQuery) ([]entity.Interview, *errors.AppError)
}

type InterviewService struct {
	repo        repository.InterviewRepositoryInterface
	blocks      BlockProvider
	evaluations EvaluationCascade
	dispatcher  NotificationDispatcher
	cache       cache.Cache
	guard       *breaker.Guard
	calc        *SlotCalculator
	tz          *time.Location
	slotTTL     time.Duration
}

func NewInterviewService(
	repo repository.InterviewRepositoryInterface,
	blocks BlockProvider,
	evaluations EvaluationCascade,
	dispatcher NotificationDispatcher,
	c cache.Cache,
	guard *breaker.Guard,
	tz *time.Location,
	slotTTL time.Duration,
) *InterviewService {
	if tz == nil {
		tz = time.Local
	}
	if slotTTL <= 0 {
		slotTTL = 2 * time.Minute
	}
	return &InterviewService{
		repo:        repo,
		blocks:      blocks,
		evaluations: evaluations,
		dispatcher:  dispatcher,
		cache:       c,
		guard:       guard,
		calc:        NewSlotCalculator(),
		tz:          tz,
		slotTTL:     slotTTL,
	}
}

// ComputeSlots returns the bookable start times for one interviewer, date
// and duration. An empty schedule is a "no availability" result, not an
// error; an open breaker is surfaced as a retryable guard rejection.
func (s *InterviewService) ComputeSlots(ctx context.Context, interviewerID uuid.UUID, date time.Time, durationMinutes int) (*dto.SlotsResponse, *errors.AppError) {
	if durationMinutes <= 0 {
		return nil, errors.NewValidationError("duration_minutes must be positive")
	}

	key := cache.SlotsKey(interviewerID.String(), date.Format("2006-01-02"), durationMinutes)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached dto.SlotsResponse
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return &cached, nil
		}
	}

	blocks, appErr := s.blocks.GetBlocksFor(ctx, interviewerID, date)
	if appErr != nil {
		return nil, appErr
	}

	if len(blocks) == 0 {
		resp := &dto.SlotsResponse{AvailableSlots: []dto.Slot{}, NoAvailability: true}
		s.storeSlots(ctx, key, resp)
		return resp, nil
	}

	busy, err := breaker.Do(ctx, s.guard, breaker.ClassMedium, func(ctx context.Context) ([]entity.BusyWindow, error) {
		return s.repo.GetBlockingInterviews(ctx, interviewerID, date, nil)
	})
	if err != nil {
		return nil, asAppError(err, "failed to load blocking interviews")
	}

	starts, calcErr := s.calc.Compute(blocks, busy, durationMinutes)
	if calcErr != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "slot computation failed", calcErr)
	}

	resp := &dto.SlotsResponse{AvailableSlots: s.calc.ToSlots(starts, durationMinutes)}
	s.storeSlots(ctx, key, resp)
	return resp, nil
}

func (s *InterviewService) storeSlots(ctx context.Context, key string, resp *dto.SlotsResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.slotTTL); err != nil {
		logger.Warn("InterviewService:storeSlots", "error", err)
	}
}

// Book validates the requested window against both interviewer calendars,
// persists a SCHEDULED interview under the per-interviewer write
// serialization, cascades evaluation stubs and enqueues notifications.
func (s *InterviewService) Book(ctx context.Context, req *dto.BookInterviewRequest) (*entity.Interview, *errors.AppError) {
	interview, appErr := s.buildInterview(req)
	if appErr != nil {
		return nil, appErr
	}

	// Fast pre-check outside the transaction; the authoritative re-check
	// runs inside CreateScheduled under the advisory locks.
	if appErr := s.checkAvailability(ctx, interview, nil); appErr != nil {
		return nil, appErr
	}

	created, err := breaker.Do(ctx, s.guard, breaker.ClassWrite, func(ctx context.Context) (*entity.Interview, error) {
		return s.repo.CreateScheduled(ctx, interview)
	})
	if err != nil {
		return nil, asAppError(err, "failed to persist interview")
	}

	// The booking is committed; stub and notification failures are logged
	// dependency failures, never rollbacks.
	if err := s.evaluations.CreateStubsForInterview(ctx, created); err != nil {
		logger.Error("InterviewService:Book:EvaluationCascade", "interview_id", created.ID, "error", err)
	}

	s.invalidateFor(ctx, created)

	if err := s.dispatcher.DispatchBooked(ctx, created); err != nil {
		logger.Error("InterviewService:Book:Dispatch", "interview_id", created.ID, "error", err)
	}

	logger.Info("InterviewService:Book:Success",
		"interview_id", created.ID,
		"application_id", created.ApplicationID,
		"date", created.ScheduledDate.Format("2006-01-02"),
		"time", created.ScheduledTime,
	)
	return created, nil
}

// Cancel applies the terminal cancel transition. A terminal current state
// yields an InvalidTransitionError with no mutation.
func (s *InterviewService) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy uuid.UUID) (*entity.Interview, *errors.AppError) {
	if reason == "" {
		return nil, errors.NewValidationError("cancellation reason is required")
	}

	interview, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if !interview.Status.CanTransitionTo(entity.StatusCancelled) {
		return nil, errors.NewInvalidTransitionError(string(interview.Status), "cancel")
	}

	cancelled, err := breaker.Do(ctx, s.guard, breaker.ClassWrite, func(ctx context.Context) (*entity.Interview, error) {
		return s.repo.Cancel(ctx, id, reason, cancelledBy)
	})
	if err != nil {
		return nil, asAppError(err, "failed to cancel interview")
	}
	if cancelled == nil {
		// Lost a race against another transition; the predicate refused.
		return nil, errors.NewInvalidTransitionError(string(interview.Status), "cancel")
	}

	s.invalidateFor(ctx, cancelled)

	if err := s.dispatcher.DispatchCancelled(ctx, cancelled); err != nil {
		logger.Error("InterviewService:Cancel:Dispatch", "interview_id", id, "error", err)
	}

	logger.Info("InterviewService:Cancel:Success", "interview_id", id, "cancelled_by", cancelledBy)
	return cancelled, nil
}

// Reschedule re-validates the new window for both interviewers, excluding
// the interview being moved from its own conflict check. On conflict the
// original interview is unchanged.
func (s *InterviewService) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleInterviewRequest) (*entity.Interview, *errors.AppError) {
	newDate, err := time.ParseInLocation("2006-01-02", req.NewDate, s.tz)
	if err != nil {
		return nil, errors.NewValidationError("new_date must be YYYY-MM-DD")
	}
	if _, err := utils.ParseClock(req.NewTime); err != nil {
		return nil, errors.NewValidationError("new_time must be HH:MM")
	}

	interview, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if !interview.Status.CanTransitionTo(entity.StatusRescheduled) {
		return nil, errors.NewInvalidTransitionError(string(interview.Status), "reschedule")
	}

	moved := *interview
	moved.ScheduledDate = newDate
	moved.ScheduledTime = req.NewTime
	if appErr := s.checkAvailability(ctx, &moved, &interview.ID); appErr != nil {
		return nil, appErr
	}

	updated, err := breaker.Do(ctx, s.guard, breaker.ClassWrite, func(ctx context.Context) (*entity.Interview, error) {
		return s.repo.RescheduleSerialized(ctx, interview, newDate, req.NewTime)
	})
	if err != nil {
		return nil, asAppError(err, "failed to reschedule interview")
	}
	if updated == nil {
		return nil, errors.NewInvalidTransitionError(string(interview.Status), "reschedule")
	}

	// Both the old and the new date scopes changed.
	s.invalidateFor(ctx, interview)
	s.invalidateFor(ctx, updated)

	if err := s.dispatcher.DispatchRescheduled(ctx, updated, interview.ScheduledDate, interview.ScheduledTime); err != nil {
		logger.Error("InterviewService:Reschedule:Dispatch", "interview_id", id, "error", err)
	}

	logger.Info("InterviewService:Reschedule:Success",
		"interview_id", id,
		"old_date", interview.ScheduledDate.Format("2006-01-02"),
		"old_time", interview.ScheduledTime,
		"new_date", req.NewDate,
		"new_time", req.NewTime,
	)
	return updated, nil
}

func (s *InterviewService) Confirm(ctx context.Context, id uuid.UUID) (*entity.Interview, *errors.AppError) {
	return s.transition(ctx, id, entity.StatusConfirmed, "confirm")
}

// Complete is invoked by the evaluation completion flow. Afterwards no
// cancel or reschedule is possible.
func (s *InterviewService) Complete(ctx context.Context, id uuid.UUID) (*entity.Interview, *errors.AppError) {
	return s.transition(ctx, id, entity.StatusCompleted, "complete")
}

func (s *InterviewService) transition(ctx context.Context, id uuid.UUID, target entity.InterviewStatus, verb string) (*entity.Interview, *errors.AppError) {
	interview, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if !interview.Status.CanTransitionTo(target) {
		return nil, errors.NewInvalidTransitionError(string(interview.Status), verb)
	}

	updated, err := breaker.Do(ctx, s.guard, breaker.ClassWrite, func(ctx context.Context) (*entity.Interview, error) {
		return s.repo.UpdateStatus(ctx, id, target)
	})
	if err != nil {
		return nil, asAppError(err, "failed to update interview status")
	}
	if updated == nil {
		return nil, errors.NewInvalidTransitionError(string(interview.Status), verb)
	}

	s.invalidateFor(ctx, updated)
	return updated, nil
}

func (s *InterviewService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, *errors.AppError) {
	return s.load(ctx, id)
}

func (s *InterviewService) List(ctx context.Context, query *dto.ListInterviewsQuery) ([]entity.Interview, *errors.AppError) {
	filter, appErr := s.buildFilter(query)
	if appErr != nil {
		return nil, appErr
	}

	interviews, err := breaker.Do(ctx, s.guard, breaker.ClassMedium, func(ctx context.Context) ([]entity.Interview, error) {
		return s.repo.List(ctx, filter)
	})
	if err != nil {
		return nil, asAppError(err, "failed to list interviews")
	}
	return interviews, nil
}

func (s *InterviewService) load(ctx context.Context, id uuid.UUID) (*entity.Interview, *errors.AppError) {
	interview, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) (*entity.Interview, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, asAppError(err, "failed to load interview")
	}
	if interview == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "interview not found", nil)
	}
	return interview, nil
}

// checkAvailability tests the interview window against every participant's
// blocking interviews using the half-open overlap rule.
func (s *InterviewService) checkAvailability(ctx context.Context, interview *entity.Interview, excludeID *uuid.UUID) *errors.AppError {
	start, err := utils.ParseClock(interview.ScheduledTime)
	if err != nil {
		return errors.NewValidationError("scheduled_time must be HH:MM")
	}

	for _, interviewerID := range interview.Participants() {
		busy, err := breaker.Do(ctx, s.guard, breaker.ClassMedium, func(ctx context.Context) ([]entity.BusyWindow, error) {
			return s.repo.GetBlockingInterviews(ctx, interviewerID, interview.ScheduledDate, excludeID)
		})
		if err != nil {
			return asAppError(err, "failed to check interviewer availability")
		}
		if entity.OverlapsAny(start, interview.DurationMinutes, busy) {
			return errors.NewConflictError(
				"interviewer is not available at the requested time",
				errors.ConflictDetails{
					InterviewerID: interviewerID.String(),
					Date:          interview.ScheduledDate.Format("2006-01-02"),
					Time:          interview.ScheduledTime,
					DurationMin:   interview.DurationMinutes,
				})
		}
	}
	return nil
}

func (s *InterviewService) buildInterview(req *dto.BookInterviewRequest) (*entity.Interview, *errors.AppError) {
	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return nil, errors.NewValidationError("application_id must be a valid uuid")
	}
	primaryID, err := uuid.Parse(req.PrimaryInterviewerID)
	if err != nil {
		return nil, errors.NewValidationError("primary_interviewer_id must be a valid uuid")
	}

	interviewType := entity.InterviewType(req.Type)
	if !interviewType.Valid() {
		return nil, errors.NewValidationError("unknown interview type")
	}

	scheduledDate, err := time.ParseInLocation("2006-01-02", req.ScheduledDate, s.tz)
	if err != nil {
		return nil, errors.NewValidationError("scheduled_date must be YYYY-MM-DD")
	}
	if _, err := utils.ParseClock(req.ScheduledTime); err != nil {
		return nil, errors.NewValidationError("scheduled_time must be HH:MM")
	}
	if req.DurationMinutes <= 0 {
		return nil, errors.NewValidationError("duration_minutes must be positive")
	}

	mode := entity.InterviewMode(req.Mode)
	if req.Mode == "" {
		mode = entity.ModeInPerson
	}
	switch mode {
	case entity.ModeInPerson, entity.ModeVirtual, entity.ModeHybrid:
	default:
		return nil, errors.NewValidationError("mode must be IN_PERSON, VIRTUAL or HYBRID")
	}

	interview := &entity.Interview{
		ApplicationID:        applicationID,
		PrimaryInterviewerID: primaryID,
		Type:                 interviewType,
		ScheduledDate:        scheduledDate,
		ScheduledTime:        req.ScheduledTime,
		DurationMinutes:      req.DurationMinutes,
		Location:             req.Location,
		Mode:                 mode,
		Status:               entity.StatusScheduled,
		Notes:                req.Notes,
	}

	if req.SecondaryInterviewerID != "" {
		secondaryID, err := uuid.Parse(req.SecondaryInterviewerID)
		if err != nil {
			return nil, errors.NewValidationError("secondary_interviewer_id must be a valid uuid")
		}
		if secondaryID == primaryID {
			return nil, errors.NewValidationError("secondary interviewer must differ from primary")
		}
		interview.SecondaryInterviewerID = &secondaryID
	}

	return interview, nil
}

func (s *InterviewService) buildFilter(query *dto.ListInterviewsQuery) (repository.ListFilter, *errors.AppError) {
	var filter repository.ListFilter

	if query.Status != "" {
		status := entity.InterviewStatus(query.Status)
		filter.Status = &status
	}
	if query.Type != "" {
		interviewType := entity.InterviewType(query.Type)
		if !interviewType.Valid() {
			return filter, errors.NewValidationError("unknown interview type filter")
		}
		filter.Type = &interviewType
	}
	if query.InterviewerID != "" {
		id, err := uuid.Parse(query.InterviewerID)
		if err != nil {
			return filter, errors.NewValidationError("interviewer_id must be a valid uuid")
		}
		filter.InterviewerID = &id
	}
	if query.FromDate != "" {
		from, err := time.ParseInLocation("2006-01-02", query.FromDate, s.tz)
		if err != nil {
			return filter, errors.NewValidationError("from must be YYYY-MM-DD")
		}
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, err := time.ParseInLocation("2006-01-02", query.ToDate, s.tz)
		if err != nil {
			return filter, errors.NewValidationError("to must be YYYY-MM-DD")
		}
		filter.ToDate = &to
	}
	return filter, nil
}

// invalidateFor drops cached reads the interview's window could affect,
// before the mutation returns to the caller.
func (s *InterviewService) invalidateFor(ctx context.Context, interview *entity.Interview) {
	for _, interviewerID := range interview.Participants() {
		if err := s.cache.Invalidate(ctx, cache.SlotsPattern(interviewerID.String())); err != nil {
			logger.Warn("InterviewService:Invalidate:Slots", "error", err)
		}
	}
	if err := s.cache.Invalidate(ctx, cache.CalendarPattern()); err != nil {
		logger.Warn("InterviewService:Invalidate:Calendar", "error", err)
	}
}

func asAppError(err error, fallback string) *errors.AppError {
	if ae, ok := err.(*errors.AppError); ok {
		return ae
	}
	return errors.NewAppError(errors.ErrInternalServer, fallback, err)
}
