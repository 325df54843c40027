package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/events"
	"github.com/donelist/donelist-api/internal/mocks"
	"github.com/donelist/donelist-api/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type taskServiceFixture struct {
	svc       *TaskService
	tasks     *mocks.TaskStore
	events    *mocks.EventRecorder
	scheduler *mocks.SchedulerRecorder
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()
	tasks := mocks.NewTaskStore()
	recorder := mocks.NewEventRecorder()
	scheduler := mocks.NewSchedulerRecorder()
	return &taskServiceFixture{
		svc:       NewTaskService(nil, tasks, recorder, scheduler, discardLogger()),
		tasks:     tasks,
		events:    recorder,
		scheduler: scheduler,
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates with defaults and publishes TaskCreated", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "buy milk"})

		require.NoError(t, err)
		assert.NotZero(t, task.ID)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.Equal(t, domain.RecurrenceNone, task.Recurrence)
		assert.Equal(t, []events.EventType{events.TaskCreated}, f.events.Types())
		assert.Empty(t, f.scheduler.Scheduled, "no reminder, no job")
	})

	t.Run("schedules reminder job when reminder set", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		remindAt := time.Now().Add(time.Hour).UTC()
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{
			Title:      "call dentist",
			ReminderAt: &remindAt,
		})

		require.NoError(t, err)
		require.Len(t, f.scheduler.Scheduled, 1)
		assert.Equal(t, task.ID, f.scheduler.Scheduled[0].TaskID)
		assert.True(t, f.scheduler.Scheduled[0].RemindAt.Equal(remindAt))
	})

	t.Run("records tag links", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{
			Title:  "tagged",
			TagIDs: []int64{3, 5},
		})

		require.NoError(t, err)
		assert.Equal(t, []int64{3, 5}, f.tasks.TagIDs(task.ID))
	})

	t.Run("rejects invalid input without publishing", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		_, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: ""})

		require.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
		assert.Empty(t, f.events.Events)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("partial update publishes TaskUpdated", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "old"})
		require.NoError(t, err)

		newTitle := "new"
		updated, err := f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Title: &newTitle})

		require.NoError(t, err)
		assert.Equal(t, "new", updated.Title)
		assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskUpdated}, f.events.Types())
	})

	t.Run("completing publishes TaskCompleted", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "finish me"})
		require.NoError(t, err)

		completed := true
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Completed: &completed})

		require.NoError(t, err)
		assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskCompleted}, f.events.Types())
	})

	t.Run("changing reminder reschedules the job", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "remind me"})
		require.NoError(t, err)

		remindAt := time.Now().Add(2 * time.Hour).UTC()
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{ReminderAt: &remindAt})
		require.NoError(t, err)
		require.Len(t, f.scheduler.Scheduled, 1)

		// Clearing the reminder deletes the job.
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{ClearReminder: true})
		require.NoError(t, err)
		assert.Equal(t, []int64{task.ID}, f.scheduler.Deleted)
	})

	t.Run("unchanged reminder leaves the job alone", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "steady"})
		require.NoError(t, err)

		newTitle := "steady still"
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Title: &newTitle})
		require.NoError(t, err)
		assert.Empty(t, f.scheduler.Scheduled)
		assert.Empty(t, f.scheduler.Deleted)
	})

	t.Run("completing deletes the pending reminder job", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		remindAt := time.Now().Add(time.Hour).UTC()
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{
			Title:      "done early",
			ReminderAt: &remindAt,
		})
		require.NoError(t, err)
		require.Len(t, f.scheduler.Scheduled, 1)

		completed := true
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Completed: &completed})
		require.NoError(t, err)
		assert.Equal(t, []int64{task.ID}, f.scheduler.Deleted)
	})

	t.Run("completing without a reminder skips the scheduler", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "plain"})
		require.NoError(t, err)

		completed := true
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Completed: &completed})
		require.NoError(t, err)
		assert.Empty(t, f.scheduler.Deleted)
	})

	t.Run("reopening a task with a reminder reschedules the job", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		remindAt := time.Now().Add(time.Hour).UTC()
		task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{
			Title:      "back again",
			ReminderAt: &remindAt,
		})
		require.NoError(t, err)

		completed := true
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Completed: &completed})
		require.NoError(t, err)

		reopened := false
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Completed: &reopened})
		require.NoError(t, err)
		require.Len(t, f.scheduler.Scheduled, 2)
		assert.Equal(t, task.ID, f.scheduler.Scheduled[1].TaskID)
	})

	t.Run("foreign task is not found", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.Create(context.Background(), "someone-else", CreateTaskInput{Title: "not yours"})
		require.NoError(t, err)

		title := "hijacked"
		_, err = f.svc.Update(context.Background(), "user-123", task.ID, UpdateTaskInput{Title: &title})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *taskServiceFixture {
		t.Helper()
		f := newTaskServiceFixture(t)
		for _, in := range []CreateTaskInput{
			{Title: "Buy groceries", Description: "milk and eggs"},
			{Title: "Call dentist", TagIDs: []int64{3}},
			{Title: "Water plants", Description: "balcony and kitchen"},
		} {
			_, err := f.svc.Create(context.Background(), "user-123", in)
			require.NoError(t, err)
		}
		return f
	}

	t.Run("search matches title and description", func(t *testing.T) {
		t.Parallel()

		f := seed(t)
		byTitle, err := f.svc.List(context.Background(), "user-123", store.TaskFilter{Search: "dentist"})
		require.NoError(t, err)
		require.Len(t, byTitle, 1)
		assert.Equal(t, "Call dentist", byTitle[0].Title)

		byDescription, err := f.svc.List(context.Background(), "user-123", store.TaskFilter{Search: "MILK"})
		require.NoError(t, err)
		require.Len(t, byDescription, 1)
		assert.Equal(t, "Buy groceries", byDescription[0].Title)
	})

	t.Run("tag filter restricts to linked tasks", func(t *testing.T) {
		t.Parallel()

		f := seed(t)
		tagged, err := f.svc.List(context.Background(), "user-123", store.TaskFilter{TagID: 3})
		require.NoError(t, err)
		require.Len(t, tagged, 1)
		assert.Equal(t, "Call dentist", tagged[0].Title)

		none, err := f.svc.List(context.Background(), "user-123", store.TaskFilter{TagID: 99})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("title sort ascending", func(t *testing.T) {
		t.Parallel()

		f := seed(t)
		tasks, err := f.svc.List(context.Background(), "user-123", store.TaskFilter{
			SortBy:  store.TaskSortTitle,
			SortAsc: true,
		})
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "Buy groceries", tasks[0].Title)
		assert.Equal(t, "Call dentist", tasks[1].Title)
		assert.Equal(t, "Water plants", tasks[2].Title)
	})

	t.Run("offset and limit page the result", func(t *testing.T) {
		t.Parallel()

		f := seed(t)
		filter := store.TaskFilter{SortBy: store.TaskSortTitle, SortAsc: true, Offset: 1, Limit: 1}
		page, err := f.svc.List(context.Background(), "user-123", filter)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Call dentist", page[0].Title)

		past, err := f.svc.List(context.Background(), "user-123", store.TaskFilter{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, past)
	})
}

func TestTaskServiceToggle(t *testing.T) {
	t.Parallel()

	f := newTaskServiceFixture(t)
	task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "flip me"})
	require.NoError(t, err)

	toggled, err := f.svc.Toggle(context.Background(), "user-123", task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	back, err := f.svc.Toggle(context.Background(), "user-123", task.ID)
	require.NoError(t, err)
	assert.False(t, back.Completed)

	// Complete then reopen: TaskCompleted then TaskUpdated.
	assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskCompleted, events.TaskUpdated}, f.events.Types())
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	f := newTaskServiceFixture(t)
	task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), "user-123", task.ID))

	_, err = f.svc.Get(context.Background(), "user-123", task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskDeleted}, f.events.Types())
	assert.Equal(t, []int64{task.ID}, f.scheduler.Deleted, "pending reminder job dropped")
}

func TestTaskServiceStats(t *testing.T) {
	t.Parallel()

	f := newTaskServiceFixture(t)
	_, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "one"})
	require.NoError(t, err)
	task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "two"})
	require.NoError(t, err)
	_, err = f.svc.Toggle(context.Background(), "user-123", task.ID)
	require.NoError(t, err)

	stats, err := f.svc.Stats(context.Background(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Complete)
	assert.Equal(t, 1, stats.Pending)
}

func TestTaskServicePublishFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()

	f := newTaskServiceFixture(t)
	f.events.Ok = false

	task, err := f.svc.Create(context.Background(), "user-123", CreateTaskInput{Title: "still created"})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
}

func TestTaskServiceTaskManager(t *testing.T) {
	t.Parallel()

	t.Run("CreateTask", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.CreateTask(context.Background(), "user-123", "buy milk", "2%", domain.PriorityHigh)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		assert.Equal(t, "2%", task.Description)
	})

	t.Run("ListTasks pending only", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		_, err := f.svc.CreateTask(context.Background(), "user-123", "open", "", domain.PriorityMedium)
		require.NoError(t, err)
		done, err := f.svc.CreateTask(context.Background(), "user-123", "done", "", domain.PriorityMedium)
		require.NoError(t, err)
		_, err = f.svc.CompleteTask(context.Background(), "user-123", done.ID)
		require.NoError(t, err)

		pending, err := f.svc.ListTasks(context.Background(), "user-123", true)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "open", pending[0].Title)

		all, err := f.svc.ListTasks(context.Background(), "user-123", false)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("CompleteTask is idempotent", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.CreateTask(context.Background(), "user-123", "once", "", domain.PriorityMedium)
		require.NoError(t, err)

		first, err := f.svc.CompleteTask(context.Background(), "user-123", task.ID)
		require.NoError(t, err)
		assert.True(t, first.Completed)

		again, err := f.svc.CompleteTask(context.Background(), "user-123", task.ID)
		require.NoError(t, err)
		assert.True(t, again.Completed)

		// Only one TaskCompleted despite two calls.
		assert.Equal(t, []events.EventType{events.TaskCreated, events.TaskCompleted}, f.events.Types())
	})

	t.Run("RenameTask", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task, err := f.svc.CreateTask(context.Background(), "user-123", "old", "", domain.PriorityMedium)
		require.NoError(t, err)

		renamed, err := f.svc.RenameTask(context.Background(), "user-123", task.ID, "new")
		require.NoError(t, err)
		assert.Equal(t, "new", renamed.Title)
	})
}
