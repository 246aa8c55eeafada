package service

import (
	"context"
	"testing"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/config"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/modules/calendar/entity"

	"github.com/google/uuid"
)

type fakeCalendarRepo struct {
	entries      []entity.CalendarEntry
	interviewers []entity.Interviewer
	entryCalls   int
}

func (f *fakeCalendarRepo) GetEntries(_ context.Context, _, _ time.Time) ([]entity.CalendarEntry, error) {
	f.entryCalls++
	return f.entries, nil
}

func (f *fakeCalendarRepo) ListInterviewers(_ context.Context) ([]entity.Interviewer, error) {
	return f.interviewers, nil
}

func newTestService(repo *fakeCalendarRepo) (*CalendarService, *cache.MemoryCache) {
	mem := cache.NewMemoryCache(64, nil)
	guard := breaker.New(config.BreakerConfig{
		RollingWindow: time.Minute, MinRequests: 100, RetryAfterSecond: 5,
	})
	return NewCalendarService(repo, mem, guard, time.Minute), mem
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return date
}

func TestGetCalendarServesFromCacheUntilInvalidated(t *testing.T) {
	repo := &fakeCalendarRepo{entries: []entity.CalendarEntry{{
		InterviewID: uuid.New(),
		StudentName: "Ana Pereira",
		Status:      "SCHEDULED",
	}}}
	svc, mem := newTestService(repo)
	start, end := day(t, "2026-03-02"), day(t, "2026-03-06")

	for i := 0; i < 3; i++ {
		entries, appErr := svc.GetCalendar(context.Background(), start, end)
		if appErr != nil {
			t.Fatalf("unexpected error: %v", appErr)
		}
		if len(entries) != 1 || entries[0].StudentName != "Ana Pereira" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	}
	if repo.entryCalls != 1 {
		t.Fatalf("repo hit %d times, want cached after first read", repo.entryCalls)
	}

	// A booking invalidates the calendar scope; the next read goes through.
	if err := mem.Invalidate(context.Background(), cache.CalendarPattern()); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if _, appErr := svc.GetCalendar(context.Background(), start, end); appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if repo.entryCalls != 2 {
		t.Fatalf("repo hit %d times, want reload after invalidation", repo.entryCalls)
	}
}

func TestGetCalendarRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(&fakeCalendarRepo{})

	_, appErr := svc.GetCalendar(context.Background(), day(t, "2026-03-06"), day(t, "2026-03-02"))
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected validation error, got %v", appErr)
	}
}

func TestListInterviewersCached(t *testing.T) {
	repo := &fakeCalendarRepo{interviewers: []entity.Interviewer{{
		ID: uuid.New(), FullName: "Lucía Fernández", Role: "interviewer", Active: true,
	}}}
	svc, _ := newTestService(repo)

	interviewers, appErr := svc.ListInterviewers(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(interviewers) != 1 || interviewers[0].FullName != "Lucía Fernández" {
		t.Fatalf("unexpected interviewers: %+v", interviewers)
	}
}
