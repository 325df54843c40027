package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/events"
)

// PublishedEvent records one typed publish through the recorder.
type PublishedEvent struct {
	Type   events.EventType
	TaskID int64
	UserID string
}

// EventRecorder records task lifecycle publishes. It satisfies the task
// service's TaskEvents dependency. Ok controls the reported outcome.
type EventRecorder struct {
	mu     sync.Mutex
	Events []PublishedEvent
	Ok     bool
}

// NewEventRecorder creates a recorder that reports successful publishes.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{Ok: true}
}

func (r *EventRecorder) record(t events.EventType, task *domain.Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, PublishedEvent{Type: t, TaskID: task.ID, UserID: task.UserID})
	return r.Ok
}

func (r *EventRecorder) PublishTaskCreated(_ context.Context, task *domain.Task) bool {
	return r.record(events.TaskCreated, task)
}

func (r *EventRecorder) PublishTaskUpdated(_ context.Context, task *domain.Task) bool {
	return r.record(events.TaskUpdated, task)
}

func (r *EventRecorder) PublishTaskCompleted(_ context.Context, task *domain.Task) bool {
	return r.record(events.TaskCompleted, task)
}

func (r *EventRecorder) PublishTaskDeleted(_ context.Context, task *domain.Task) bool {
	return r.record(events.TaskDeleted, task)
}

func (r *EventRecorder) PublishReminderDue(_ context.Context, task *domain.Task, _ time.Time) bool {
	return r.record(events.ReminderDue, task)
}

// Types returns the recorded event types in publish order.
func (r *EventRecorder) Types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

// ScheduledReminder records one scheduler call.
type ScheduledReminder struct {
	TaskID   int64
	UserID   string
	Title    string
	RemindAt time.Time
}

// SchedulerRecorder records reminder job maintenance. It satisfies the task
// service's ReminderScheduler dependency.
type SchedulerRecorder struct {
	mu        sync.Mutex
	Scheduled []ScheduledReminder
	Deleted   []int64
	Ok        bool
}

// NewSchedulerRecorder creates a recorder that reports successful calls.
func NewSchedulerRecorder() *SchedulerRecorder {
	return &SchedulerRecorder{Ok: true}
}

func (r *SchedulerRecorder) ScheduleReminder(_ context.Context, taskID int64, userID, title string, remindAt time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Scheduled = append(r.Scheduled, ScheduledReminder{TaskID: taskID, UserID: userID, Title: title, RemindAt: remindAt})
	return r.Ok
}

func (r *SchedulerRecorder) DeleteReminder(_ context.Context, taskID int64, _ string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deleted = append(r.Deleted, taskID)
	return r.Ok
}

// StubPublisher is an events.Publisher that records raw publishes.
type StubPublisher struct {
	mu       sync.Mutex
	Topics   []string
	Payloads []interface{}
	Ok       bool
}

// NewStubPublisher creates a publisher that reports success.
func NewStubPublisher() *StubPublisher {
	return &StubPublisher{Ok: true}
}

var _ events.Publisher = (*StubPublisher)(nil)

func (p *StubPublisher) Publish(_ context.Context, topic string, payload interface{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Topics = append(p.Topics, topic)
	p.Payloads = append(p.Payloads, payload)
	return p.Ok
}
