package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/config"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/modules/evaluation/dto"
	"admissions-scheduler/modules/evaluation/entity"
	interviewentity "admissions-scheduler/modules/interview/entity"

	"github.com/google/uuid"
)

type stubKey struct {
	applicationID uuid.UUID
	evaluatorID   uuid.UUID
	evalType      entity.EvaluationType
}

type fakeEvaluationRepo struct {
	stubs    map[stubKey]*entity.Evaluation
	failFor  map[uuid.UUID]bool // evaluator ids whose inserts fail
	inserted int
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{
		stubs:   map[stubKey]*entity.Evaluation{},
		failFor: map[uuid.UUID]bool{},
	}
}

func (f *fakeEvaluationRepo) InsertIfAbsent(_ context.Context, applicationID, evaluatorID uuid.UUID, evaluationType entity.EvaluationType) (bool, error) {
	if f.failFor[evaluatorID] {
		return false, fmt.Errorf("insert failed for %s", evaluatorID)
	}
	key := stubKey{applicationID, evaluatorID, evaluationType}
	if _, ok := f.stubs[key]; ok {
		return false, nil
	}
	f.stubs[key] = &entity.Evaluation{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		EvaluatorID:   evaluatorID,
		Type:          evaluationType,
		Status:        entity.StatusPending,
	}
	f.inserted++
	return true, nil
}

func (f *fakeEvaluationRepo) ListByApplication(_ context.Context, applicationID uuid.UUID) ([]entity.Evaluation, error) {
	var out []entity.Evaluation
	for key, ev := range f.stubs {
		if key.applicationID == applicationID {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEvaluationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Evaluation, error) {
	for _, ev := range f.stubs {
		if ev.ID == id {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeEvaluationRepo) Complete(_ context.Context, id uuid.UUID, score, maxScore float64) (*entity.Evaluation, error) {
	for _, ev := range f.stubs {
		if ev.ID == id {
			if ev.Status != entity.StatusPending {
				return nil, nil
			}
			ev.Status = entity.StatusCompleted
			ev.Score = &score
			ev.MaxScore = &maxScore
			copied := *ev
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeCompleter struct {
	completed []uuid.UUID
	err       *errors.AppError
}

func (f *fakeCompleter) Complete(_ context.Context, id uuid.UUID) (*interviewentity.Interview, *errors.AppError) {
	f.completed = append(f.completed, id)
	if f.err != nil {
		return nil, f.err
	}
	return &interviewentity.Interview{ID: id, Status: interviewentity.StatusCompleted}, nil
}

func newTestService(repo *fakeEvaluationRepo) (*EvaluationService, *fakeCompleter) {
	guard := breaker.New(config.BreakerConfig{
		RollingWindow: time.Minute, MinRequests: 100, RetryAfterSecond: 5,
	})
	svc := NewEvaluationService(repo, guard)
	completer := &fakeCompleter{}
	svc.SetInterviewCompleter(completer)
	return svc, completer
}

func familyInterview(primary uuid.UUID, secondary *uuid.UUID) *interviewentity.Interview {
	return &interviewentity.Interview{
		ID:                     uuid.New(),
		ApplicationID:          uuid.New(),
		PrimaryInterviewerID:   primary,
		SecondaryInterviewerID: secondary,
		Type:                   interviewentity.TypeFamily,
		Status:                 interviewentity.StatusScheduled,
	}
}

func TestTypesForInterviewMapping(t *testing.T) {
	cases := []struct {
		interviewType interviewentity.InterviewType
		want          []entity.EvaluationType
	}{
		{interviewentity.TypeFamily, []entity.EvaluationType{entity.TypeFamilyInterview}},
		{interviewentity.TypeCycleDirector, []entity.EvaluationType{entity.TypeCycleDirectorInterview, entity.TypeCycleDirectorReport}},
		{interviewentity.TypeStudent, []entity.EvaluationType{entity.TypePsychologicalInterview}},
		{interviewentity.TypePsychologist, []entity.EvaluationType{entity.TypePsychologicalInterview}},
	}
	for _, tc := range cases {
		got := entity.TypesForInterview(tc.interviewType)
		if fmt.Sprint(got) != fmt.Sprint(tc.want) {
			t.Fatalf("TypesForInterview(%s) = %v, want %v", tc.interviewType, got, tc.want)
		}
	}
}

func TestCreateStubsOnePerParticipant(t *testing.T) {
	repo := newFakeEvaluationRepo()
	svc, _ := newTestService(repo)
	secondary := uuid.New()
	interview := familyInterview(uuid.New(), &secondary)

	if err := svc.CreateStubsForInterview(context.Background(), interview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted != 2 {
		t.Fatalf("inserted = %d, want one FAMILY_INTERVIEW stub per participant", repo.inserted)
	}
}

func TestCreateStubsCycleDirectorAddsReport(t *testing.T) {
	repo := newFakeEvaluationRepo()
	svc, _ := newTestService(repo)
	interview := familyInterview(uuid.New(), nil)
	interview.Type = interviewentity.TypeCycleDirector

	if err := svc.CreateStubsForInterview(context.Background(), interview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted != 2 {
		t.Fatalf("inserted = %d, want interview + report stubs", repo.inserted)
	}
}

func TestCreateStubsIdempotent(t *testing.T) {
	repo := newFakeEvaluationRepo()
	svc, _ := newTestService(repo)
	interview := familyInterview(uuid.New(), nil)

	if err := svc.CreateStubsForInterview(context.Background(), interview); err != nil {
		t.Fatalf("first cascade failed: %v", err)
	}
	if err := svc.CreateStubsForInterview(context.Background(), interview); err != nil {
		t.Fatalf("repeat cascade must not error: %v", err)
	}
	if repo.inserted != 1 {
		t.Fatalf("inserted = %d, want duplicate insert silently skipped", repo.inserted)
	}
}

func TestCreateStubsIsolatesParticipantFailure(t *testing.T) {
	repo := newFakeEvaluationRepo()
	svc, _ := newTestService(repo)
	failing := uuid.New()
	healthy := uuid.New()
	repo.failFor[failing] = true
	interview := familyInterview(failing, &healthy)

	err := svc.CreateStubsForInterview(context.Background(), interview)
	if err == nil {
		t.Fatalf("expected the failing participant's error to surface")
	}
	if repo.inserted != 1 {
		t.Fatalf("inserted = %d, want the healthy participant's stub created anyway", repo.inserted)
	}
}

func TestCompleteScoresAndClosesInterview(t *testing.T) {
	repo := newFakeEvaluationRepo()
	svc, completer := newTestService(repo)
	applicationID := uuid.New()
	evaluatorID := uuid.New()
	if _, err := repo.InsertIfAbsent(context.Background(), applicationID, evaluatorID, entity.TypeFamilyInterview); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	stub := repo.stubs[stubKey{applicationID, evaluatorID, entity.TypeFamilyInterview}]
	interviewID := uuid.New()

	completed, appErr := svc.Complete(context.Background(), stub.ID, &dto.CompleteEvaluationRequest{
		Score: 8, MaxScore: 10, InterviewID: interviewID.String(),
	})
	if appErr != nil {
		t.Fatalf("complete failed: %v", appErr)
	}
	if completed.Status != entity.StatusCompleted || completed.Score == nil || *completed.Score != 8 {
		t.Fatalf("unexpected evaluation state: %+v", completed)
	}
	if len(completer.completed) != 1 || completer.completed[0] != interviewID {
		t.Fatalf("interview completion not delegated: %v", completer.completed)
	}
}

func TestCompleteTwiceIsInvalidTransition(t *testing.T) {
	repo := newFakeEvaluationRepo()
	svc, _ := newTestService(repo)
	applicationID := uuid.New()
	evaluatorID := uuid.New()
	if _, err := repo.InsertIfAbsent(context.Background(), applicationID, evaluatorID, entity.TypeFamilyInterview); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	stub := repo.stubs[stubKey{applicationID, evaluatorID, entity.TypeFamilyInterview}]
	req := &dto.CompleteEvaluationRequest{Score: 8, MaxScore: 10}

	if _, appErr := svc.Complete(context.Background(), stub.ID, req); appErr != nil {
		t.Fatalf("first complete failed: %v", appErr)
	}
	_, appErr := svc.Complete(context.Background(), stub.ID, req)
	if appErr == nil || appErr.Code != errors.ErrInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", appErr)
	}
}

func TestCompleteRejectsBadScore(t *testing.T) {
	svc, _ := newTestService(newFakeEvaluationRepo())

	_, appErr := svc.Complete(context.Background(), uuid.New(), &dto.CompleteEvaluationRequest{Score: 11, MaxScore: 10})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected validation error, got %v", appErr)
	}
}

func TestCompleteUnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService(newFakeEvaluationRepo())

	_, appErr := svc.Complete(context.Background(), uuid.New(), &dto.CompleteEvaluationRequest{Score: 5, MaxScore: 10})
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected not found, got %v", appErr)
	}
}
