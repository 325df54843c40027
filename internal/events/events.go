package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics the service publishes to. Consumers subscribe to the same names
// through the broker component.
const (
	// TopicTaskEvents carries the task lifecycle events.
	TopicTaskEvents = "task-events"

	// TopicReminders carries ReminderDue events.
	TopicReminders = "reminders"
)

// EventType identifies what happened to a task.
type EventType string

// Task lifecycle event types.
const (
	TaskCreated   EventType = "TaskCreated"
	TaskUpdated   EventType = "TaskUpdated"
	TaskCompleted EventType = "TaskCompleted"
	TaskDeleted   EventType = "TaskDeleted"
	ReminderDue   EventType = "ReminderDue"
)

// TaskEvent is the schema published to the task-events topic.
// EventID is unique per publish and is the consumer's deduplication key
// under at-least-once delivery.
type TaskEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  EventType `json:"event_type"`
	TaskID     int64     `json:"task_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Recurrence string    `json:"recurrence"`
	Timestamp  time.Time `json:"timestamp"`
}

// ReminderEvent is the schema published to the reminders topic. EventType is
// always ReminderDue; it is carried on the wire so consumers can dispatch on
// the same field across both topics.
type ReminderEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	TaskID    int64     `json:"task_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	DueAt     time.Time `json:"due_at"`
}
