package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/config"
	"admissions-scheduler/core/constants"
	apperrors "admissions-scheduler/core/errors"
	directoryentity "admissions-scheduler/modules/directory/entity"
	interviewentity "admissions-scheduler/modules/interview/entity"
	"admissions-scheduler/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeNotificationRepo struct {
	created []entity.Notification
	err     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = uuid.New()
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]entity.Notification, error) {
	var out []entity.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

type fakeDirectory struct {
	contacts map[uuid.UUID]*directoryentity.ApplicationContact
}

func (f *fakeDirectory) Lookup(_ context.Context, applicationID uuid.UUID) (*directoryentity.ApplicationContact, *apperrors.AppError) {
	if c, ok := f.contacts[applicationID]; ok {
		return c, nil
	}
	return nil, apperrors.NewAppError(apperrors.ErrNotFound, "application not found", nil)
}

func testPayload(applicationID uuid.UUID, interviewers ...uuid.UUID) InterviewEventPayload {
	return InterviewEventPayload{
		InterviewID:     uuid.New(),
		ApplicationID:   applicationID,
		InterviewerIDs:  interviewers,
		Type:            "FAMILY",
		ScheduledDate:   "2026-03-02",
		ScheduledTime:   "09:00",
		DurationMinutes: 20,
	}
}

func TestHandlerWritesRowPerParticipant(t *testing.T) {
	repo := &fakeNotificationRepo{}
	applicationID := uuid.New()
	directory := &fakeDirectory{contacts: map[uuid.UUID]*directoryentity.ApplicationContact{
		applicationID: {ApplicationID: applicationID, StudentName: "Diego Sosa"},
	}}
	h := NewHandler(repo, directory)

	payload := testPayload(applicationID, uuid.New(), uuid.New())
	raw, _ := json.Marshal(payload)
	task := asynq.NewTask(constants.TaskInterviewBooked, raw)

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 2 {
		t.Fatalf("created %d rows, want one per participant", len(repo.created))
	}
	for _, n := range repo.created {
		if n.Type != entity.TypeInterviewBooked {
			t.Fatalf("type = %s, want INTERVIEW_BOOKED", n.Type)
		}
		if !strings.Contains(n.Message, "Diego Sosa") {
			t.Fatalf("message missing student name: %q", n.Message)
		}
	}
}

func TestHandlerRescheduleMentionsBothWindows(t *testing.T) {
	repo := &fakeNotificationRepo{}
	applicationID := uuid.New()
	directory := &fakeDirectory{contacts: map[uuid.UUID]*directoryentity.ApplicationContact{
		applicationID: {ApplicationID: applicationID, StudentName: "Diego Sosa"},
	}}
	h := NewHandler(repo, directory)

	payload := testPayload(applicationID, uuid.New())
	payload.OldDate = "2026-03-02"
	payload.OldTime = "09:00"
	payload.ScheduledDate = "2026-03-09"
	payload.ScheduledTime = "10:00"
	raw, _ := json.Marshal(payload)

	if err := h.ProcessTask(context.Background(), asynq.NewTask(constants.TaskInterviewRescheduled, raw)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := repo.created[0].Message
	if !strings.Contains(msg, "2026-03-02 09:00") || !strings.Contains(msg, "2026-03-09 10:00") {
		t.Fatalf("message missing old or new window: %q", msg)
	}
}

func TestHandlerUnknownApplicationStillDelivers(t *testing.T) {
	repo := &fakeNotificationRepo{}
	h := NewHandler(repo, &fakeDirectory{contacts: map[uuid.UUID]*directoryentity.ApplicationContact{}})

	raw, _ := json.Marshal(testPayload(uuid.New(), uuid.New()))
	if err := h.ProcessTask(context.Background(), asynq.NewTask(constants.TaskInterviewCancelled, raw)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d rows, want delivery despite missing contact", len(repo.created))
	}
}

func TestHandlerMalformedPayloadSkipsRetry(t *testing.T) {
	h := NewHandler(&fakeNotificationRepo{}, &fakeDirectory{})

	err := h.ProcessTask(context.Background(), asynq.NewTask(constants.TaskInterviewBooked, []byte("{broken")))
	if err == nil || !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestDispatcherInlineFallbackWithoutQueue(t *testing.T) {
	repo := &fakeNotificationRepo{}
	applicationID := uuid.New()
	directory := &fakeDirectory{contacts: map[uuid.UUID]*directoryentity.ApplicationContact{
		applicationID: {ApplicationID: applicationID, StudentName: "Diego Sosa"},
	}}
	guard := breaker.New(config.BreakerConfig{
		RollingWindow: time.Minute, MinRequests: 100, RetryAfterSecond: 5,
	})
	d := NewDispatcher(nil, NewHandler(repo, directory), guard)

	interview := &interviewentity.Interview{
		ID:                   uuid.New(),
		ApplicationID:        applicationID,
		PrimaryInterviewerID: uuid.New(),
		Type:                 interviewentity.TypeFamily,
		ScheduledDate:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ScheduledTime:        "09:00",
		DurationMinutes:      20,
	}
	if err := d.DispatchBooked(context.Background(), interview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d rows, want inline delivery", len(repo.created))
	}
}
