package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// TaskEvents is the slice of the event bus the task service publishes
// through. All publishes are best-effort.
type TaskEvents interface {
	PublishTaskCreated(ctx context.Context, task *domain.Task) bool
	PublishTaskUpdated(ctx context.Context, task *domain.Task) bool
	PublishTaskCompleted(ctx context.Context, task *domain.Task) bool
	PublishTaskDeleted(ctx context.Context, task *domain.Task) bool
}

// ReminderScheduler maintains one-shot reminder jobs in the scheduler.
// It is only consulted when the one-shot reminder strategy is active.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, taskID int64, userID, title string, remindAt time.Time) bool
	DeleteReminder(ctx context.Context, taskID int64, userID string) bool
}

// CreateTaskInput carries the caller-settable fields for a new task.
// Zero values fall back to the domain defaults.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
	Recurrence  domain.Recurrence
	ReminderAt  *time.Time
	TagIDs      []int64
}

// UpdateTaskInput carries a partial update. Nil pointers leave the field
// untouched; the Clear flags null out the optional timestamps. A nil TagIDs
// leaves the tag links alone, a non-nil one replaces them wholesale.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Completed     *bool
	Priority      *domain.Priority
	DueDate       *time.Time
	ClearDueDate  bool
	Recurrence    *domain.Recurrence
	ReminderAt    *time.Time
	ClearReminder bool
	TagIDs        []int64
}

// TaskService implements task management on top of the task store, stamping
// lifecycle events onto the bus and keeping scheduled reminder jobs in step
// with each task's reminder time.
type TaskService struct {
	db        *sql.DB
	tasks     store.TaskStore
	events    TaskEvents
	scheduler ReminderScheduler
	logger    *slog.Logger
}

// NewTaskService creates a TaskService. scheduler may be nil when the
// polling reminder strategy is active; events must not be nil. If logger is
// nil, a default logger will be used.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	events TaskEvents,
	scheduler ReminderScheduler,
	logger *slog.Logger,
) *TaskService {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if events == nil {
		panic("events cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		db:        db,
		tasks:     tasks,
		events:    events,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// Create makes a new task for the owner, publishes TaskCreated and, when the
// one-shot strategy is active and a reminder is set, schedules the reminder
// job. Task insertion and tag linking run in one transaction.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(userID, in.Title)
	if err != nil {
		return nil, err
	}

	task.Description = in.Description
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if in.Recurrence != "" {
		task.Recurrence = in.Recurrence
	}
	task.DueDate = in.DueDate
	task.ReminderAt = in.ReminderAt

	if err := task.Validate(); err != nil {
		return nil, err
	}

	err = s.inTransaction(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		return tasks.Create(ctx, task, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	s.events.PublishTaskCreated(ctx, task)
	if task.ReminderAt != nil {
		s.syncReminderJob(ctx, task)
	}

	return task, nil
}

// Get retrieves the owner's task.
func (s *TaskService) Get(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id, userID)
}

// List retrieves the owner's tasks matching the filter.
func (s *TaskService) List(ctx context.Context, userID string, filter store.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, userID, filter)
}

// Stats returns total/complete/pending counts for the owner.
func (s *TaskService) Stats(ctx context.Context, userID string) (*store.TaskStats, error) {
	return s.tasks.Stats(ctx, userID)
}

// Update applies a partial update to the owner's task. A transition into the
// completed state publishes TaskCompleted and drops any pending reminder
// job; any other change publishes TaskUpdated.
func (s *TaskService) Update(ctx context.Context, userID string, id int64, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	wasCompleted := task.Completed
	reminderBefore := task.ReminderAt

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Recurrence != nil {
		task.Recurrence = *in.Recurrence
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.ClearDueDate {
		task.DueDate = nil
	}
	if in.ReminderAt != nil {
		task.ReminderAt = in.ReminderAt
	}
	if in.ClearReminder {
		task.ReminderAt = nil
	}
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	err = s.inTransaction(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		return tasks.Update(ctx, task, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}

	if !wasCompleted && task.Completed {
		s.events.PublishTaskCompleted(ctx, task)
	} else {
		s.events.PublishTaskUpdated(ctx, task)
	}

	switch {
	case !wasCompleted && task.Completed:
		// A completed task keeps no pending reminder job.
		if s.scheduler != nil && reminderBefore != nil {
			s.scheduler.DeleteReminder(ctx, task.ID, task.UserID)
		}
	case wasCompleted && !task.Completed && task.ReminderAt != nil:
		s.syncReminderJob(ctx, task)
	case reminderChanged(reminderBefore, task.ReminderAt):
		s.syncReminderJob(ctx, task)
	}

	return task, nil
}

// Toggle flips the owner's task between complete and pending. Completing
// publishes TaskCompleted, reopening publishes TaskUpdated.
func (s *TaskService) Toggle(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	completed := true
	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		completed = false
	}
	return s.Update(ctx, userID, id, UpdateTaskInput{Completed: &completed})
}

// Delete removes the owner's task, publishes TaskDeleted and drops any
// pending reminder job for it.
func (s *TaskService) Delete(ctx context.Context, userID string, id int64) error {
	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.events.PublishTaskDeleted(ctx, task)
	if s.scheduler != nil {
		s.scheduler.DeleteReminder(ctx, task.ID, task.UserID)
	}

	return nil
}

// CreateTask implements the tool executor's TaskManager.
func (s *TaskService) CreateTask(ctx context.Context, userID, title, description string, priority domain.Priority) (*domain.Task, error) {
	return s.Create(ctx, userID, CreateTaskInput{
		Title:       title,
		Description: description,
		Priority:    priority,
	})
}

// ListTasks implements the tool executor's TaskManager.
func (s *TaskService) ListTasks(ctx context.Context, userID string, pendingOnly bool) ([]*domain.Task, error) {
	filter := store.TaskFilter{}
	if pendingOnly {
		notCompleted := false
		filter.Completed = &notCompleted
	}
	return s.List(ctx, userID, filter)
}

// CompleteTask implements the tool executor's TaskManager. Completing an
// already-completed task is a no-op that returns the task unchanged.
func (s *TaskService) CompleteTask(ctx context.Context, userID string, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return task, nil
	}

	completed := true
	return s.Update(ctx, userID, id, UpdateTaskInput{Completed: &completed})
}

// DeleteTask implements the tool executor's TaskManager.
func (s *TaskService) DeleteTask(ctx context.Context, userID string, id int64) error {
	return s.Delete(ctx, userID, id)
}

// RenameTask implements the tool executor's TaskManager.
func (s *TaskService) RenameTask(ctx context.Context, userID string, id int64, title string) (*domain.Task, error) {
	return s.Update(ctx, userID, id, UpdateTaskInput{Title: &title})
}

// inTransaction runs fn against a transaction-bound task store. A nil db
// runs the work directly; in-memory stores manage their own atomicity.
func (s *TaskService) inTransaction(ctx context.Context, fn func(ctx context.Context, tasks store.TaskStore) error) error {
	if s.db == nil {
		return fn(ctx, s.tasks)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.tasks.WithTx(tx))
	})
}

// syncReminderJob brings the scheduled job in line with the task's reminder:
// a set reminder (re)schedules the job, a cleared one deletes it. No-op
// under the polling strategy.
func (s *TaskService) syncReminderJob(ctx context.Context, task *domain.Task) {
	if s.scheduler == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	if task.ReminderAt == nil {
		s.scheduler.DeleteReminder(ctx, task.ID, task.UserID)
		return
	}

	if !s.scheduler.ScheduleReminder(ctx, task.ID, task.UserID, task.Title, *task.ReminderAt) {
		log.Warn("reminder job not scheduled",
			slog.Int64("task_id", task.ID))
	}
}

func reminderChanged(before, after *time.Time) bool {
	if before == nil && after == nil {
		return false
	}
	if before == nil || after == nil {
		return true
	}
	return !before.Equal(*after)
}
