package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/events"
	"github.com/donelist/donelist-api/internal/mocks"
	"github.com/donelist/donelist-api/internal/service"
	"github.com/donelist/donelist-api/internal/service/lifecycle"
	"github.com/donelist/donelist-api/internal/service/reminder"
	"github.com/donelist/donelist-api/internal/store"
)

type eventHandlerFixture struct {
	handler  *EventHandler
	store    *mocks.TaskStore
	recorder *mocks.EventRecorder
}

func newEventHandlerFixture(t *testing.T) *eventHandlerFixture {
	t.Helper()

	taskStore := mocks.NewTaskStore()
	recorder := mocks.NewEventRecorder()
	taskService := service.NewTaskService(nil, taskStore, recorder, nil, discardLogger())
	engine := lifecycle.NewEngine(taskService, recorder, nil, discardLogger())
	reminders := reminder.NewService(taskStore, recorder, discardLogger())

	return &eventHandlerFixture{
		handler:  NewEventHandler(engine, reminders, "kafka-pubsub", discardLogger()),
		store:    taskStore,
		recorder: recorder,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func postRaw(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSubscriptions(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/dapr/subscribe", nil)
	rec := httptest.NewRecorder()

	f.handler.Subscriptions(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var subs []SubscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	require.Len(t, subs, 2)
	assert.Equal(t, SubscriptionResponse{
		PubsubName: "kafka-pubsub",
		Topic:      "task-events",
		Route:      "/events/task-events",
	}, subs[0])
	assert.Equal(t, SubscriptionResponse{
		PubsubName: "kafka-pubsub",
		Topic:      "reminders",
		Route:      "/events/reminders",
	}, subs[1])
}

func TestHandleTaskEventsRecurringCompletion(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postJSON(t, f.handler.HandleTaskEvents, "/events/task-events", events.TaskEvent{
		EventID:    uuid.New(),
		EventType:  events.TaskCompleted,
		TaskID:     7,
		UserID:     "u1",
		Title:      "Water plants",
		Recurrence: "weekly",
		Timestamp:  time.Now().UTC(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", decodeStatus(t, rec)["status"])

	// The next instance exists and its creation was published.
	tasks, err := f.store.List(context.Background(), "u1", store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Water plants", tasks[0].Title)
	assert.Equal(t, domain.RecurrenceWeekly, tasks[0].Recurrence)
	assert.False(t, tasks[0].Completed)
	require.NotNil(t, tasks[0].DueDate)

	assert.Equal(t, []events.EventType{events.TaskCreated}, f.recorder.Types())
}

func TestHandleTaskEventsNonRecurringIsAuditOnly(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postJSON(t, f.handler.HandleTaskEvents, "/events/task-events", events.TaskEvent{
		EventID:   uuid.New(),
		EventType: events.TaskUpdated,
		TaskID:    7,
		UserID:    "u1",
		Title:     "Water plants",
		Timestamp: time.Now().UTC(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", decodeStatus(t, rec)["status"])

	tasks, err := f.store.List(context.Background(), "u1", store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestHandleTaskEventsMalformedJSON(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postRaw(t, f.handler.HandleTaskEvents, "/events/task-events", "{not json")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeStatus(t, rec)
	assert.Equal(t, "ERROR", resp["status"])
	assert.Equal(t, "Invalid JSON", resp["message"])
}

func TestHandleTaskEventsCreateFailureRequestsRetry(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)
	f.store.Err = assert.AnError

	rec := postJSON(t, f.handler.HandleTaskEvents, "/events/task-events", events.TaskEvent{
		EventID:    uuid.New(),
		EventType:  events.TaskCompleted,
		TaskID:     7,
		UserID:     "u1",
		Title:      "Water plants",
		Recurrence: "daily",
		Timestamp:  time.Now().UTC(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "RETRY", decodeStatus(t, rec)["status"])
}

func TestHandleReminderEvents(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postJSON(t, f.handler.HandleReminderEvents, "/events/reminders", events.ReminderEvent{
		EventID:   uuid.New(),
		EventType: events.ReminderDue,
		TaskID:    42,
		UserID:    "u1",
		Title:     "Pay rent",
		DueAt:     time.Now().UTC(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", decodeStatus(t, rec)["status"])
}

func TestHandleReminderEventsMalformedJSON(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postRaw(t, f.handler.HandleReminderEvents, "/events/reminders", "not json at all")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ERROR", decodeStatus(t, rec)["status"])
}

func TestReminderCron(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	past := time.Now().UTC().Add(-time.Minute)
	f.store.Seed(&domain.Task{
		UserID:     "u1",
		Title:      "due",
		Priority:   domain.PriorityMedium,
		Recurrence: domain.RecurrenceNone,
		ReminderAt: &past,
	})

	req := httptest.NewRequest(http.MethodPost, "/reminder-cron", nil)
	rec := httptest.NewRecorder()

	f.handler.ReminderCron(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeStatus(t, rec)
	assert.Equal(t, "SUCCESS", resp["status"])
	assert.Equal(t, "1", resp["reminders_sent"])

	assert.Equal(t, []events.EventType{events.ReminderDue}, f.recorder.Types())
}

func TestReminderCronStoreFailure(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)
	f.store.Err = assert.AnError

	req := httptest.NewRequest(http.MethodPost, "/reminder-cron", nil)
	rec := httptest.NewRecorder()

	f.handler.ReminderCron(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestJobsCallback(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postJSON(t, f.handler.JobsCallback, "/jobs/callback", lifecycle.ReminderJob{
		Type:   "reminder",
		TaskID: 9,
		UserID: "u1",
		Title:  "Stand-up",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeStatus(t, rec)
	assert.Equal(t, "SUCCESS", resp["status"])
	assert.Equal(t, "reminder", resp["job_type"])
}

func TestJobsCallbackMalformedJSON(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postRaw(t, f.handler.JobsCallback, "/jobs/callback", "{{")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ERROR", decodeStatus(t, rec)["status"])
}

func TestSendNotification(t *testing.T) {
	t.Parallel()

	f := newEventHandlerFixture(t)

	rec := postJSON(t, f.handler.SendNotification, "/send-notification", NotificationRequest{
		TaskID:  9,
		UserID:  "u1",
		Title:   "Stand-up",
		Message: "Reminder: Stand-up is due!",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", decodeStatus(t, rec)["status"])
}
