package service

import (
	"context"
	"testing"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/config"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/modules/schedule/dto"
	"admissions-scheduler/modules/schedule/entity"

	"github.com/google/uuid"
)

type fakeScheduleRepo struct {
	blocks map[uuid.UUID]*entity.ScheduleBlock
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{blocks: make(map[uuid.UUID]*entity.ScheduleBlock)}
}

func (f *fakeScheduleRepo) Create(_ context.Context, block *entity.ScheduleBlock) (*entity.ScheduleBlock, error) {
	stored := *block
	stored.ID = uuid.New()
	stored.Active = true
	f.blocks[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeScheduleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ScheduleBlock, error) {
	block, ok := f.blocks[id]
	if !ok {
		return nil, nil
	}
	copied := *block
	return &copied, nil
}

func (f *fakeScheduleRepo) GetBlocksFor(_ context.Context, interviewerID uuid.UUID, date time.Time) ([]entity.ScheduleBlock, error) {
	var out []entity.ScheduleBlock
	for _, block := range f.blocks {
		if block.InterviewerID == interviewerID && block.Matches(date) {
			out = append(out, *block)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByInterviewer(_ context.Context, interviewerID uuid.UUID) ([]entity.ScheduleBlock, error) {
	var out []entity.ScheduleBlock
	for _, block := range f.blocks {
		if block.InterviewerID == interviewerID && block.Active {
			out = append(out, *block)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, block *entity.ScheduleBlock) error {
	copied := *block
	f.blocks[block.ID] = &copied
	return nil
}

func (f *fakeScheduleRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if block, ok := f.blocks[id]; ok {
		block.Active = false
	}
	return nil
}

func newTestService(repo *fakeScheduleRepo) (*ScheduleService, *cache.MemoryCache) {
	mem := cache.NewMemoryCache(64, nil)
	guard := breaker.New(config.BreakerConfig{
		RollingWindow: time.Minute, MinRequests: 100, RetryAfterSecond: 5,
	})
	return NewScheduleService(repo, mem, guard, time.UTC), mem
}

func intPtr(v int) *int { return &v }

func TestCreateBlockRecurring(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc, _ := newTestService(repo)

	block, appErr := svc.CreateBlock(context.Background(), &dto.CreateBlockRequest{
		InterviewerID: uuid.New().String(),
		Kind:          "RECURRING",
		DayOfWeek:     intPtr(1),
		Year:          2026,
		StartTime:     "09:00",
		EndTime:       "10:00",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if block.ID == uuid.Nil || !block.Active {
		t.Fatalf("expected active persisted block, got %+v", block)
	}
}

func TestCreateBlockRejectsInvertedTimes(t *testing.T) {
	svc, _ := newTestService(newFakeScheduleRepo())

	_, appErr := svc.CreateBlock(context.Background(), &dto.CreateBlockRequest{
		InterviewerID: uuid.New().String(),
		Kind:          "RECURRING",
		DayOfWeek:     intPtr(1),
		Year:          2026,
		StartTime:     "10:00",
		EndTime:       "09:00",
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected validation error, got %v", appErr)
	}
}

func TestCreateBlockRejectsMixedKindFields(t *testing.T) {
	svc, _ := newTestService(newFakeScheduleRepo())

	_, appErr := svc.CreateBlock(context.Background(), &dto.CreateBlockRequest{
		InterviewerID: uuid.New().String(),
		Kind:          "RECURRING",
		DayOfWeek:     intPtr(1),
		SpecificDate:  "2026-03-02",
		Year:          2026,
		StartTime:     "09:00",
		EndTime:       "10:00",
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected validation error for mixed fields, got %v", appErr)
	}
}

func TestWriteInvalidatesSlotCache(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc, mem := newTestService(repo)
	ctx := context.Background()

	interviewerID := uuid.New()
	_ = mem.Set(ctx, cache.SlotsKey(interviewerID.String(), "2026-03-02", 20), "cached", time.Minute)
	_ = mem.Set(ctx, cache.CalendarKey("2026-03-01", "2026-03-31"), "cached", time.Minute)

	_, appErr := svc.CreateBlock(ctx, &dto.CreateBlockRequest{
		InterviewerID: interviewerID.String(),
		Kind:          "RECURRING",
		DayOfWeek:     intPtr(1),
		Year:          2026,
		StartTime:     "09:00",
		EndTime:       "10:00",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if _, ok, _ := mem.Get(ctx, cache.SlotsKey(interviewerID.String(), "2026-03-02", 20)); ok {
		t.Fatal("slot cache for the interviewer must be invalidated")
	}
	if _, ok, _ := mem.Get(ctx, cache.CalendarKey("2026-03-01", "2026-03-31")); ok {
		t.Fatal("calendar cache must be invalidated")
	}
}

func TestDeactivateSoftDeletes(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	block, _ := svc.CreateBlock(ctx, &dto.CreateBlockRequest{
		InterviewerID: uuid.New().String(),
		Kind:          "SPECIFIC_DATE",
		SpecificDate:  "2026-03-02",
		Year:          2026,
		StartTime:     "09:00",
		EndTime:       "10:00",
	})

	if appErr := svc.DeactivateBlock(ctx, block.ID); appErr != nil {
		t.Fatalf("deactivate: %v", appErr)
	}
	stored := repo.blocks[block.ID]
	if stored == nil || stored.Active {
		t.Fatal("expected block soft-deleted, not removed")
	}
}

func TestGetBlocksForMatchesRecurringWeekday(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	interviewerID := uuid.New()
	_, _ = svc.CreateBlock(ctx, &dto.CreateBlockRequest{
		InterviewerID: interviewerID.String(),
		Kind:          "RECURRING",
		DayOfWeek:     intPtr(1), // Monday
		Year:          2026,
		StartTime:     "09:00",
		EndTime:       "10:00",
	})

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	blocks, appErr := svc.GetBlocksFor(ctx, interviewerID, monday)
	if appErr != nil || len(blocks) != 1 {
		t.Fatalf("expected one block on Monday, got %d (%v)", len(blocks), appErr)
	}
	blocks, _ = svc.GetBlocksFor(ctx, interviewerID, tuesday)
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks on Tuesday, got %d", len(blocks))
	}
}
