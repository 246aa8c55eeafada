package service

import (
	"context"
	"encoding/json"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/constants"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/core/utils"
	interviewentity "admissions-scheduler/modules/interview/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// InterviewEventPayload is the task body for every interview lifecycle
// notification. Old* fields are set only on reschedules.
type InterviewEventPayload struct {
	EventID         string      `json:"event_id"`
	InterviewID     uuid.UUID   `json:"interview_id"`
	ApplicationID   uuid.UUID   `json:"application_id"`
	InterviewerIDs  []uuid.UUID `json:"interviewer_ids"`
	Type            string      `json:"type"`
	ScheduledDate   string      `json:"scheduled_date"`
	ScheduledTime   string      `json:"scheduled_time"`
	DurationMinutes int         `json:"duration_minutes"`
	Location        string      `json:"location"`
	OldDate         string      `json:"old_date,omitempty"`
	OldTime         string      `json:"old_time,omitempty"`
}

// TaskEnqueuer is the slice of asynq.Client the dispatcher needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher enqueues lifecycle notification tasks onto the background
// queue. Without a queue (Redis not configured) it falls back to handling
// the event inline so local setups still get inbox rows.
type Dispatcher struct {
	client  TaskEnqueuer
	handler *Handler
	guard   *breaker.Guard
}

func NewDispatcher(client TaskEnqueuer, handler *Handler, guard *breaker.Guard) *Dispatcher {
	return &Dispatcher{client: client, handler: handler, guard: guard}
}

func (d *Dispatcher) DispatchBooked(ctx context.Context, interview *interviewentity.Interview) error {
	return d.dispatch(ctx, constants.TaskInterviewBooked, payloadFor(interview, "", ""))
}

func (d *Dispatcher) DispatchCancelled(ctx context.Context, interview *interviewentity.Interview) error {
	return d.dispatch(ctx, constants.TaskInterviewCancelled, payloadFor(interview, "", ""))
}

func (d *Dispatcher) DispatchRescheduled(ctx context.Context, interview *interviewentity.Interview, oldDate time.Time, oldTime string) error {
	return d.dispatch(ctx, constants.TaskInterviewRescheduled, payloadFor(interview, oldDate.Format(constants.DateLayout), oldTime))
}

func (d *Dispatcher) dispatch(ctx context.Context, taskType string, payload InterviewEventPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if d.client == nil {
		if d.handler != nil {
			return d.handler.handleEvent(ctx, taskType, payload)
		}
		return nil
	}

	// The queue round-trips through Redis, so enqueue counts as external
	// work under the guard.
	_, err = breaker.Do(ctx, d.guard, breaker.ClassExternal, func(ctx context.Context) (*asynq.TaskInfo, error) {
		return d.client.EnqueueContext(ctx, asynq.NewTask(taskType, raw), asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	})
	if err != nil {
		return err
	}

	logger.Debug("Dispatcher:Enqueued", "task", taskType, "event_id", payload.EventID, "interview_id", payload.InterviewID)
	return nil
}

func payloadFor(interview *interviewentity.Interview, oldDate, oldTime string) InterviewEventPayload {
	return InterviewEventPayload{
		EventID:         utils.GenerateID(),
		InterviewID:     interview.ID,
		ApplicationID:   interview.ApplicationID,
		InterviewerIDs:  interview.Participants(),
		Type:            string(interview.Type),
		ScheduledDate:   interview.ScheduledDate.Format(constants.DateLayout),
		ScheduledTime:   interview.ScheduledTime,
		DurationMinutes: interview.DurationMinutes,
		Location:        interview.Location,
		OldDate:         oldDate,
		OldTime:         oldTime,
	}
}
