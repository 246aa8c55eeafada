package repository

import (
	"context"
	"database/sql"

	"admissions-scheduler/core/database"
	"admissions-scheduler/modules/evaluation/entity"

	"github.com/google/uuid"
)

type EvaluationRepositoryInterface interface {
	InsertIfAbsent(ctx context.Context, applicationID, evaluatorID uuid.UUID, evaluationType entity.EvaluationType) (bool, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]entity.Evaluation, error)
	Complete(ctx context.Context, id uuid.UUID, score, maxScore float64) (*entity.Evaluation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Evaluation, error)
}

type EvaluationRepository struct {
	DB database.IDatabase
}

func NewEvaluationRepository(db database.IDatabase) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

// InsertIfAbsent creates a PENDING stub unless the same (application,
// evaluator, type) row already exists. Returns whether a row was inserted;
// hitting the unique constraint is a normal outcome.
func (r *EvaluationRepository) InsertIfAbsent(ctx context.Context, applicationID, evaluatorID uuid.UUID, evaluationType entity.EvaluationType) (bool, error) {
	query := `
		INSERT INTO evaluations (application_id, evaluator_id, evaluation_type, status)
		VALUES ($1, $2, $3, 'PENDING')
		ON CONFLICT (application_id, evaluator_id, evaluation_type) DO NOTHING
		RETURNING id`

	var id uuid.UUID
	err := r.DB.GetContext(ctx, &id, query, applicationID, evaluatorID, evaluationType)
	if err != nil {
		// No row returned means the stub already existed.
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *EvaluationRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]entity.Evaluation, error) {
	query := `
		SELECT id, application_id, evaluator_id, evaluation_type, status,
		       score, max_score, created_at, updated_at
		FROM evaluations
		WHERE application_id = $1
		ORDER BY created_at`

	evaluations := []entity.Evaluation{}
	if err := r.DB.SelectContext(ctx, &evaluations, query, applicationID); err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *EvaluationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Evaluation, error) {
	query := `
		SELECT id, application_id, evaluator_id, evaluation_type, status,
		       score, max_score, created_at, updated_at
		FROM evaluations
		WHERE id = $1`

	var evaluation entity.Evaluation
	err := r.DB.GetContext(ctx, &evaluation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &evaluation, nil
}

// Complete records the score on a PENDING evaluation. Returns nil when the
// row is missing or already completed.
func (r *EvaluationRepository) Complete(ctx context.Context, id uuid.UUID, score, maxScore float64) (*entity.Evaluation, error) {
	query := `
		UPDATE evaluations
		SET status = 'COMPLETED', score = $2, max_score = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id, application_id, evaluator_id, evaluation_type, status,
		          score, max_score, created_at, updated_at`

	var evaluation entity.Evaluation
	err := r.DB.GetContext(ctx, &evaluation, query, id, score, maxScore)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &evaluation, nil
}
