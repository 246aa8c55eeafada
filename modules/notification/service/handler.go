package service

import (
	"context"
	"encoding/json"
	"fmt"

	"admissions-scheduler/core/constants"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/core/logger"
	directoryentity "admissions-scheduler/modules/directory/entity"
	"admissions-scheduler/modules/notification/entity"
	"admissions-scheduler/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ContactDirectory resolves the applicant display data for a payload.
type ContactDirectory interface {
	Lookup(ctx context.Context, applicationID uuid.UUID) (*directoryentity.ApplicationContact, *errors.AppError)
}

// Handler consumes interview lifecycle tasks and writes one inbox row per
// participant. asynq retries failed tasks independently of the mutation
// that enqueued them.
type Handler struct {
	repo      repository.NotificationRepositoryInterface
	directory ContactDirectory
}

func NewHandler(repo repository.NotificationRepositoryInterface, directory ContactDirectory) *Handler {
	return &Handler{repo: repo, directory: directory}
}

// Register attaches the handler to an asynq mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskInterviewBooked, h.ProcessTask)
	mux.HandleFunc(constants.TaskInterviewCancelled, h.ProcessTask)
	mux.HandleFunc(constants.TaskInterviewRescheduled, h.ProcessTask)
}

func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload InterviewEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// A malformed payload never becomes valid; skip the retry cycle.
		return fmt.Errorf("unmarshal %s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return h.handleEvent(ctx, task.Type(), payload)
}

func (h *Handler) handleEvent(ctx context.Context, taskType string, payload InterviewEventPayload) error {
	studentName := "the applicant"
	if contact, appErr := h.directory.Lookup(ctx, payload.ApplicationID); appErr == nil {
		studentName = contact.StudentName
	} else {
		logger.Warn("NotificationHandler:DirectoryLookup",
			"application_id", payload.ApplicationID, "error", appErr)
	}

	title, message, notificationType := render(taskType, studentName, payload)
	data := entity.JSONB{
		"event_id":       payload.EventID,
		"interview_id":   payload.InterviewID.String(),
		"application_id": payload.ApplicationID.String(),
		"scheduled_date": payload.ScheduledDate,
		"scheduled_time": payload.ScheduledTime,
	}

	var firstErr error
	for _, interviewerID := range payload.InterviewerIDs {
		notification := &entity.Notification{
			UserID:  interviewerID,
			Title:   title,
			Message: message,
			Type:    notificationType,
			Data:    data,
		}
		if err := h.repo.Create(ctx, notification); err != nil {
			logger.Error("NotificationHandler:Create",
				"user_id", interviewerID, "interview_id", payload.InterviewID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func render(taskType, studentName string, payload InterviewEventPayload) (title, message, notificationType string) {
	switch taskType {
	case constants.TaskInterviewCancelled:
		return "Interview cancelled",
			fmt.Sprintf("The %s interview with %s on %s at %s was cancelled.",
				payload.Type, studentName, payload.ScheduledDate, payload.ScheduledTime),
			entity.TypeInterviewCancelled
	case constants.TaskInterviewRescheduled:
		return "Interview rescheduled",
			fmt.Sprintf("The %s interview with %s moved from %s %s to %s %s.",
				payload.Type, studentName, payload.OldDate, payload.OldTime,
				payload.ScheduledDate, payload.ScheduledTime),
			entity.TypeInterviewRescheduled
	default:
		return "Interview booked",
			fmt.Sprintf("A %s interview with %s is booked for %s at %s (%d min).",
				payload.Type, studentName, payload.ScheduledDate, payload.ScheduledTime,
				payload.DurationMinutes),
			entity.TypeInterviewBooked
	}
}
