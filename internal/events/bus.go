package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/donelist/donelist-api/internal/domain"
)

// Bus wraps a Publisher with typed helpers for the event schemas. It stamps
// each event with a fresh event ID and a UTC timestamp at publish time, so
// callers only supply the task the event is about.
type Bus struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewBus creates a new Bus publishing through the given Publisher.
// If logger is nil, a default logger will be used.
func NewBus(publisher Publisher, logger *slog.Logger) *Bus {
	if publisher == nil {
		panic("publisher cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Bus{
		publisher: publisher,
		logger:    logger.With(slog.String("component", "event_bus")),
	}
}

// PublishTaskCreated publishes a TaskCreated event for the task.
func (b *Bus) PublishTaskCreated(ctx context.Context, task *domain.Task) bool {
	return b.publishTaskEvent(ctx, TaskCreated, task)
}

// PublishTaskUpdated publishes a TaskUpdated event for the task.
func (b *Bus) PublishTaskUpdated(ctx context.Context, task *domain.Task) bool {
	return b.publishTaskEvent(ctx, TaskUpdated, task)
}

// PublishTaskCompleted publishes a TaskCompleted event for the task. The
// event carries the task's recurrence so the lifecycle consumer can decide
// whether to spawn the next occurrence.
func (b *Bus) PublishTaskCompleted(ctx context.Context, task *domain.Task) bool {
	return b.publishTaskEvent(ctx, TaskCompleted, task)
}

// PublishTaskDeleted publishes a TaskDeleted event for the task.
func (b *Bus) PublishTaskDeleted(ctx context.Context, task *domain.Task) bool {
	return b.publishTaskEvent(ctx, TaskDeleted, task)
}

// PublishReminderDue publishes a ReminderDue event to the reminders topic.
func (b *Bus) PublishReminderDue(ctx context.Context, task *domain.Task, dueAt time.Time) bool {
	event := ReminderEvent{
		EventID:   uuid.New(),
		EventType: ReminderDue,
		TaskID:    task.ID,
		UserID:    task.UserID,
		Title:     task.Title,
		DueAt:     dueAt.UTC(),
	}

	ok := b.publisher.Publish(ctx, TopicReminders, event)
	b.logPublish(ctx, string(ReminderDue), task.ID, ok)
	return ok
}

func (b *Bus) publishTaskEvent(ctx context.Context, eventType EventType, task *domain.Task) bool {
	event := TaskEvent{
		EventID:    uuid.New(),
		EventType:  eventType,
		TaskID:     task.ID,
		UserID:     task.UserID,
		Title:      task.Title,
		Recurrence: string(task.Recurrence),
		Timestamp:  time.Now().UTC(),
	}

	ok := b.publisher.Publish(ctx, TopicTaskEvents, event)
	b.logPublish(ctx, string(eventType), task.ID, ok)
	return ok
}

func (b *Bus) logPublish(ctx context.Context, eventType string, taskID int64, ok bool) {
	if ok {
		b.logger.DebugContext(ctx, "event published",
			slog.String("event_type", eventType),
			slog.Int64("task_id", taskID))
		return
	}
	b.logger.WarnContext(ctx, "event not published",
		slog.String("event_type", eventType),
		slog.Int64("task_id", taskID))
}
