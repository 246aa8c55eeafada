package service

import (
	"context"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/modules/notification/entity"
	"admissions-scheduler/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	GetMyNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
}

// NotificationService serves the in-app inbox. Rows are created by the
// queue handler, never through this service.
type NotificationService struct {
	repo  repository.NotificationRepositoryInterface
	guard *breaker.Guard
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, guard *breaker.Guard) *NotificationService {
	return &NotificationService{repo: repo, guard: guard}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, *errors.AppError) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) ([]entity.Notification, error) {
		return s.repo.GetByUserID(ctx, userID, limit, offset)
	})
	if err != nil {
		return nil, asAppError(err, "failed to list notifications")
	}
	return notifications, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) *errors.AppError {
	if len(ids) == 0 {
		return errors.NewValidationError("ids must not be empty")
	}

	if err := s.guard.Execute(ctx, breaker.ClassWrite, func(ctx context.Context) error {
		return s.repo.MarkAsRead(ctx, userID, ids)
	}); err != nil {
		return asAppError(err, "failed to mark notifications read")
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.guard.Execute(ctx, breaker.ClassWrite, func(ctx context.Context) error {
		return s.repo.MarkAllAsRead(ctx, userID)
	}); err != nil {
		return asAppError(err, "failed to mark notifications read")
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) (int, error) {
		return s.repo.CountUnread(ctx, userID)
	})
	if err != nil {
		return 0, asAppError(err, "failed to count unread notifications")
	}
	return count, nil
}

func asAppError(err error, fallback string) *errors.AppError {
	if ae, ok := err.(*errors.AppError); ok {
		return ae
	}
	return errors.NewAppError(errors.ErrInternalServer, fallback, err)
}
