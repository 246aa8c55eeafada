package service

import (
	"context"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/modules/evaluation/dto"
	"admissions-scheduler/modules/evaluation/entity"
	"admissions-scheduler/modules/evaluation/repository"
	interviewentity "admissions-scheduler/modules/interview/entity"

	"github.com/google/uuid"
)

// InterviewCompleter closes the interview an evaluation belongs to. The
// lifecycle service owns that transition; evaluations never touch the
// interviews table directly.
type InterviewCompleter interface {
	Complete(ctx context.Context, id uuid.UUID) (*interviewentity.Interview, *errors.AppError)
}

type EvaluationServiceInterface interface {
	CreateStubsForInterview(ctx context.Context, interview *interviewentity.Interview) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]entity.Evaluation, *errors.AppError)
	Complete(ctx context.Context, id uuid.UUID, req *dto.CompleteEvaluationRequest) (*entity.Evaluation, *errors.AppError)
}

type EvaluationService struct {
	repo       repository.EvaluationRepositoryInterface
	interviews InterviewCompleter
	guard      *breaker.Guard
}

func NewEvaluationService(repo repository.EvaluationRepositoryInterface, guard *breaker.Guard) *EvaluationService {
	return &EvaluationService{repo: repo, guard: guard}
}

// SetInterviewCompleter breaks the construction cycle with the interview
// module: interviews need the cascade, the cascade's complete path needs
// interviews.
func (s *EvaluationService) SetInterviewCompleter(completer InterviewCompleter) {
	s.interviews = completer
}

// CreateStubsForInterview inserts the pending evaluation stubs every
// participant owes after a booking. Failures are isolated per participant
// and per stub type; the booking itself is already committed.
func (s *EvaluationService) CreateStubsForInterview(ctx context.Context, interview *interviewentity.Interview) error {
	types := entity.TypesForInterview(interview.Type)

	var firstErr error
	for _, evaluatorID := range interview.Participants() {
		for _, evaluationType := range types {
			inserted, err := breaker.Do(ctx, s.guard, breaker.ClassWrite, func(ctx context.Context) (bool, error) {
				return s.repo.InsertIfAbsent(ctx, interview.ApplicationID, evaluatorID, evaluationType)
			})
			if err != nil {
				logger.Error("EvaluationService:CreateStubs:Failed",
					"application_id", interview.ApplicationID,
					"evaluator_id", evaluatorID,
					"type", evaluationType,
					"error", err,
				)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if !inserted {
				logger.Debug("EvaluationService:CreateStubs:Exists",
					"application_id", interview.ApplicationID,
					"evaluator_id", evaluatorID,
					"type", evaluationType,
				)
			}
		}
	}
	return firstErr
}

func (s *EvaluationService) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]entity.Evaluation, *errors.AppError) {
	evaluations, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) ([]entity.Evaluation, error) {
		return s.repo.ListByApplication(ctx, applicationID)
	})
	if err != nil {
		return nil, asAppError(err, "failed to list evaluations")
	}
	return evaluations, nil
}

// Complete scores a pending evaluation. When the request names the source
// interview, the interview is completed through the lifecycle service; an
// already-completed interview is not an error here.
func (s *EvaluationService) Complete(ctx context.Context, id uuid.UUID, req *dto.CompleteEvaluationRequest) (*entity.Evaluation, *errors.AppError) {
	if req.MaxScore <= 0 {
		return nil, errors.NewValidationError("max_score must be positive")
	}
	if req.Score < 0 || req.Score > req.MaxScore {
		return nil, errors.NewValidationError("score must be between 0 and max_score")
	}

	evaluation, err := breaker.Do(ctx, s.guard, breaker.ClassWrite, func(ctx context.Context) (*entity.Evaluation, error) {
		return s.repo.Complete(ctx, id, req.Score, req.MaxScore)
	})
	if err != nil {
		return nil, asAppError(err, "failed to complete evaluation")
	}
	if evaluation == nil {
		existing, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) (*entity.Evaluation, error) {
			return s.repo.GetByID(ctx, id)
		})
		if err != nil {
			return nil, asAppError(err, "failed to load evaluation")
		}
		if existing == nil {
			return nil, errors.NewAppError(errors.ErrNotFound, "evaluation not found", nil)
		}
		return nil, errors.NewInvalidTransitionError(string(existing.Status), "complete")
	}

	if req.InterviewID != "" && s.interviews != nil {
		interviewID, parseErr := uuid.Parse(req.InterviewID)
		if parseErr != nil {
			return nil, errors.NewValidationError("interview_id must be a valid uuid")
		}
		if _, appErr := s.interviews.Complete(ctx, interviewID); appErr != nil {
			// The evaluation itself is already scored.
			logger.Warn("EvaluationService:Complete:InterviewTransition",
				"evaluation_id", id, "interview_id", interviewID, "error", appErr)
		}
	}

	logger.Info("EvaluationService:Complete:Success", "evaluation_id", id, "score", req.Score)
	return evaluation, nil
}

func asAppError(err error, fallback string) *errors.AppError {
	if ae, ok := err.(*errors.AppError); ok {
		return ae
	}
	return errors.NewAppError(errors.ErrInternalServer, fallback, err)
}
