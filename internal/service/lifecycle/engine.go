package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/events"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/service"
)

// TaskCreator creates the next instance of a recurring task. It is satisfied
// by service.TaskService; Create publishes the TaskCreated event for the new
// task itself.
type TaskCreator interface {
	Create(ctx context.Context, userID string, in service.CreateTaskInput) (*domain.Task, error)
}

// ReminderPublisher publishes a ReminderDue event when a scheduled reminder
// job fires. Best effort; satisfied by events.Bus.
type ReminderPublisher interface {
	PublishReminderDue(ctx context.Context, task *domain.Task, dueAt time.Time) bool
}

// Notifier pushes a reminder notification to the user-facing notification
// service. Best effort.
type Notifier interface {
	NotifyReminder(ctx context.Context, taskID int64, userID, title, message string) bool
}

// ReminderJob is the payload a scheduled reminder job delivers back to us
// when it fires.
type ReminderJob struct {
	Type   string `json:"type"`
	TaskID int64  `json:"task_id"`
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// Engine reacts to task lifecycle events coming off the broker. It writes an
// audit line for every event and regenerates recurring tasks when their
// current instance is completed.
//
// The broker delivers at least once, so a redelivered TaskCompleted event can
// create a second next-instance task. Event ids travel on the wire for
// consumers that want to deduplicate; this engine deliberately does not.
type Engine struct {
	tasks     TaskCreator
	publisher ReminderPublisher
	notifier  Notifier
	now       func() time.Time
	logger    *slog.Logger
}

// NewEngine creates an Engine. publisher feeds fired reminder jobs back onto
// the reminders topic; notifier may be nil when no notification service is
// deployed. If logger is nil, a default logger will be used.
func NewEngine(tasks TaskCreator, publisher ReminderPublisher, notifier Notifier, logger *slog.Logger) *Engine {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if publisher == nil {
		panic("publisher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		tasks:     tasks,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "lifecycle_engine")),
	}
}

// HandleTaskEvent processes one event from the task-events topic. Every event
// is audit-logged; a TaskCompleted event for a recurring task additionally
// creates the next instance. The returned error is non-nil only when creating
// that next instance failed, so the broker redelivers and retries it.
func (e *Engine) HandleTaskEvent(ctx context.Context, event events.TaskEvent) error {
	log := logger.FromContextOrDefault(ctx, e.logger)

	log.Info(auditLine(event),
		slog.String("event_id", event.EventID.String()),
		slog.String("event_type", string(event.EventType)),
		slog.Int64("task_id", event.TaskID),
		slog.String("user_id", event.UserID))

	if event.EventType != events.TaskCompleted {
		return nil
	}

	recurrence := domain.Recurrence(event.Recurrence)
	if recurrence == domain.RecurrenceNone || !recurrence.IsValid() {
		return nil
	}

	now := e.now().UTC()
	nextDue, ok := recurrence.NextOccurrence(now)
	if !ok {
		return nil
	}

	next, err := e.tasks.Create(ctx, event.UserID, service.CreateTaskInput{
		Title:       event.Title,
		Description: fmt.Sprintf("Recurring from: %s", now.Format(time.DateOnly)),
		Recurrence:  recurrence,
		DueDate:     &nextDue,
	})
	if err != nil {
		log.Error("failed to create next recurring task",
			slog.Int64("completed_task_id", event.TaskID),
			slog.String("error", err.Error()))
		return fmt.Errorf("creating next recurring task: %w", err)
	}

	log.Info("created next recurring task",
		slog.Int64("task_id", next.ID),
		slog.Int64("completed_task_id", event.TaskID),
		slog.String("recurrence", string(recurrence)),
		slog.Time("due_date", nextDue))

	return nil
}

// HandleReminderEvent processes one event from the reminders topic. The
// reminder has already fired by the time it reaches us; all that is left is
// the audit trail and, when a notifier is configured, pushing the
// notification through.
func (e *Engine) HandleReminderEvent(ctx context.Context, event events.ReminderEvent) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	log.Info(fmt.Sprintf("[REMINDER] Task #%d for user %s: %q is due at %s",
		event.TaskID, event.UserID, event.Title, event.DueAt.Format(time.RFC3339)),
		slog.String("event_id", event.EventID.String()),
		slog.Int64("task_id", event.TaskID),
		slog.String("user_id", event.UserID))

	if e.notifier != nil {
		e.notifier.NotifyReminder(ctx, event.TaskID, event.UserID, event.Title,
			fmt.Sprintf("Reminder: %s is due!", event.Title))
	}
}

// HandleReminderJob processes a scheduled job callback: the one-shot
// strategy's path to the same ReminderDue publish the poller performs. Job
// firing is idempotent per key: a job that fires twice produces a duplicate
// event and notification, nothing else.
func (e *Engine) HandleReminderJob(ctx context.Context, job ReminderJob) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	log.Info("reminder job fired",
		slog.String("job_type", job.Type),
		slog.Int64("task_id", job.TaskID),
		slog.String("user_id", job.UserID))

	if job.Type != "reminder" {
		return
	}

	task := &domain.Task{ID: job.TaskID, UserID: job.UserID, Title: job.Title}
	e.publisher.PublishReminderDue(ctx, task, e.now().UTC())

	if e.notifier != nil {
		e.notifier.NotifyReminder(ctx, job.TaskID, job.UserID, job.Title,
			fmt.Sprintf("Reminder: %s is due!", job.Title))
	}
}

// auditLine renders the one-line audit record written for every task event.
func auditLine(event events.TaskEvent) string {
	return fmt.Sprintf("[AUDIT] %s | %s | Task #%d | User: %s | Title: %s",
		event.Timestamp.Format(time.RFC3339), event.EventType,
		event.TaskID, event.UserID, event.Title)
}
