package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/donelist/donelist-api/internal/api/shared"
	"github.com/donelist/donelist-api/internal/events"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/service/lifecycle"
	"github.com/donelist/donelist-api/internal/service/reminder"
)

// Dapr delivery statuses. SUCCESS drops the message, RETRY redelivers it.
const (
	daprStatusSuccess = "SUCCESS"
	daprStatusRetry   = "RETRY"
	daprStatusError   = "ERROR"
)

// SubscriptionResponse declares one topic subscription to the Dapr sidecar.
type SubscriptionResponse struct {
	PubsubName string `json:"pubsubname"`
	Topic      string `json:"topic"`
	Route      string `json:"route"`
}

// EventStatusResponse is the ack shape Dapr expects from event handlers.
type EventStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// EventHandler handles the Dapr-facing endpoints: subscription discovery,
// topic deliveries, the cron binding trigger, scheduled job callbacks and
// service invocation targets. These routes sit outside the bearer-token
// middleware; only the sidecar calls them.
type EventHandler struct {
	engine     *lifecycle.Engine
	reminders  *reminder.Service
	pubsubName string
	logger     *slog.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(
	engine *lifecycle.Engine,
	reminders *reminder.Service,
	pubsubName string,
	logger *slog.Logger,
) *EventHandler {
	if engine == nil {
		panic("engine cannot be nil")
	}
	if reminders == nil {
		panic("reminders cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for EventHandler")
	}

	return &EventHandler{
		engine:     engine,
		reminders:  reminders,
		pubsubName: pubsubName,
		logger:     logger.With(slog.String("component", "event_handler")),
	}
}

// Subscriptions handles GET /dapr/subscribe. The sidecar calls it once on
// startup to discover which topics to deliver here.
func (h *EventHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, []SubscriptionResponse{
		{
			PubsubName: h.pubsubName,
			Topic:      events.TopicTaskEvents,
			Route:      "/events/task-events",
		},
		{
			PubsubName: h.pubsubName,
			Topic:      events.TopicReminders,
			Route:      "/events/reminders",
		},
	})
}

// HandleTaskEvents handles POST /events/task-events deliveries. Malformed
// payloads are acked with an error status so the broker does not redeliver
// a poison message; a failed recurrence creation asks for redelivery.
func (h *EventHandler) HandleTaskEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var event events.TaskEvent
	if err := shared.DecodeJSON(r, &event); err != nil {
		log.Warn("dropping malformed task event", slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{
			Status:  daprStatusError,
			Message: "Invalid JSON",
		})
		return
	}

	if err := h.engine.HandleTaskEvent(r.Context(), event); err != nil {
		shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{
			Status: daprStatusRetry,
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{Status: daprStatusSuccess})
}

// HandleReminderEvents handles POST /events/reminders deliveries.
func (h *EventHandler) HandleReminderEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var event events.ReminderEvent
	if err := shared.DecodeJSON(r, &event); err != nil {
		log.Warn("dropping malformed reminder event", slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{
			Status:  daprStatusError,
			Message: "Invalid JSON",
		})
		return
	}

	h.engine.HandleReminderEvent(r.Context(), event)

	shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{Status: daprStatusSuccess})
}

// ReminderCron handles POST /reminder-cron, the Dapr cron binding trigger.
// It runs one sweep over due reminders and reports how many were sent.
func (h *EventHandler) ReminderCron(w http.ResponseWriter, r *http.Request) {
	processed, err := h.reminders.ProcessDue(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Reminder sweep failed", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":         daprStatusSuccess,
		"reminders_sent": strconv.Itoa(processed),
	})
}

// JobsCallback handles POST /jobs/callback, fired when a scheduled job
// triggers under the one-shot reminder strategy.
func (h *EventHandler) JobsCallback(w http.ResponseWriter, r *http.Request) {
	var job lifecycle.ReminderJob
	if err := shared.DecodeJSON(r, &job); err != nil {
		shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{
			Status:  daprStatusError,
			Message: "Invalid JSON",
		})
		return
	}

	h.engine.HandleReminderJob(r.Context(), job)

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":   daprStatusSuccess,
		"job_type": job.Type,
	})
}

// NotificationRequest is the payload other services send through Dapr
// service invocation to deliver a notification.
type NotificationRequest struct {
	TaskID  int64  `json:"task_id"`
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SendNotification handles POST /send-notification, the service invocation
// target. Delivery is a log line; a real deployment would fan out to push
// channels here.
func (h *EventHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req NotificationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{
			Status:  daprStatusError,
			Message: "Invalid JSON",
		})
		return
	}

	log.Info(fmt.Sprintf("[NOTIFICATION] Task #%d | User: %s | %s", req.TaskID, req.UserID, req.Message),
		slog.Int64("task_id", req.TaskID),
		slog.String("user_id", req.UserID),
		slog.String("title", req.Title))

	shared.RespondWithJSON(w, r, http.StatusOK, EventStatusResponse{Status: daprStatusSuccess})
}
