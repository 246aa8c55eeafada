package service

import (
	"context"
	"encoding/json"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/modules/calendar/entity"
	"admissions-scheduler/modules/calendar/repository"
)

type CalendarServiceInterface interface {
	GetCalendar(ctx context.Context, startDate, endDate time.Time) ([]entity.CalendarEntry, *errors.AppError)
	ListInterviewers(ctx context.Context) ([]entity.Interviewer, *errors.AppError)
}

// CalendarService serves the read-only calendar and directory projections.
// Both are cached; interview mutations invalidate the calendar scope.
type CalendarService struct {
	repo        repository.CalendarRepositoryInterface
	cache       cache.Cache
	guard       *breaker.Guard
	calendarTTL time.Duration
}

func NewCalendarService(repo repository.CalendarRepositoryInterface, c cache.Cache, guard *breaker.Guard, calendarTTL time.Duration) *CalendarService {
	if calendarTTL <= 0 {
		calendarTTL = 5 * time.Minute
	}
	return &CalendarService{repo: repo, cache: c, guard: guard, calendarTTL: calendarTTL}
}

func (s *CalendarService) GetCalendar(ctx context.Context, startDate, endDate time.Time) ([]entity.CalendarEntry, *errors.AppError) {
	if endDate.Before(startDate) {
		return nil, errors.NewValidationError("end_date must not precede start_date")
	}

	key := cache.CalendarKey(startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached []entity.CalendarEntry
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return cached, nil
		}
	}

	entries, err := breaker.Do(ctx, s.guard, breaker.ClassMedium, func(ctx context.Context) ([]entity.CalendarEntry, error) {
		return s.repo.GetEntries(ctx, startDate, endDate)
	})
	if err != nil {
		return nil, asAppError(err, "failed to load calendar")
	}

	s.store(ctx, key, entries, s.calendarTTL)
	return entries, nil
}

func (s *CalendarService) ListInterviewers(ctx context.Context) ([]entity.Interviewer, *errors.AppError) {
	key := cache.InterviewersKey()
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached []entity.Interviewer
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return cached, nil
		}
	}

	interviewers, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) ([]entity.Interviewer, error) {
		return s.repo.ListInterviewers(ctx)
	})
	if err != nil {
		return nil, asAppError(err, "failed to list interviewers")
	}

	s.store(ctx, key, interviewers, s.calendarTTL)
	return interviewers, nil
}

func (s *CalendarService) store(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), ttl); err != nil {
		logger.Warn("CalendarService:store", "key", key, "error", err)
	}
}

func asAppError(err error, fallback string) *errors.AppError {
	if ae, ok := err.(*errors.AppError); ok {
		return ae
	}
	return errors.NewAppError(errors.ErrInternalServer, fallback, err)
}
