package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/database"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/modules/directory/entity"

	"github.com/google/uuid"
)

type DirectoryServiceInterface interface {
	Lookup(ctx context.Context, applicationID uuid.UUID) (*entity.ApplicationContact, *errors.AppError)
}

// DirectoryService is the read-only application directory. The engine only
// ever needs one projection from it, so the repository layer is folded in.
type DirectoryService struct {
	db    database.IDatabase
	cache cache.Cache
	guard *breaker.Guard
	ttl   time.Duration
}

func NewDirectoryService(db database.IDatabase, c cache.Cache, guard *breaker.Guard, ttl time.Duration) *DirectoryService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DirectoryService{db: db, cache: c, guard: guard, ttl: ttl}
}

func (s *DirectoryService) Lookup(ctx context.Context, applicationID uuid.UUID) (*entity.ApplicationContact, *errors.AppError) {
	key := cache.DirectoryKey(applicationID.String())
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached entity.ApplicationContact
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return &cached, nil
		}
	}

	contact, err := breaker.Do(ctx, s.guard, breaker.ClassSimple, func(ctx context.Context) (*entity.ApplicationContact, error) {
		query := `
			SELECT id AS application_id, student_name, guardian_name, guardian_email, guardian_phone
			FROM applications
			WHERE id = $1`

		var c entity.ApplicationContact
		if err := s.db.GetContext(ctx, &c, query, applicationID); err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, err
		}
		return &c, nil
	})
	if err != nil {
		if ae, ok := err.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up application", err)
	}
	if contact == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "application not found", nil)
	}

	if raw, marshalErr := json.Marshal(contact); marshalErr == nil {
		if cacheErr := s.cache.Set(ctx, key, string(raw), s.ttl); cacheErr != nil {
			logger.Warn("DirectoryService:Lookup:Cache", "error", cacheErr)
		}
	}
	return contact, nil
}
