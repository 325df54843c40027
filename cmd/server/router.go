package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apiMiddleware "github.com/donelist/donelist-api/internal/api/middleware"
)

// setupRouter configures the application router. Bearer-token auth guards
// the user-facing API; the Dapr-facing endpoints stay open because only the
// sidecar reaches them.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/tasks", app.taskHandler.CreateTask)
			r.Get("/tasks", app.taskHandler.ListTasks)
			r.Get("/tasks/stats", app.taskHandler.GetStats)
			r.Get("/tasks/{id}", app.taskHandler.GetTask)
			r.Patch("/tasks/{id}", app.taskHandler.UpdateTask)
			r.Post("/tasks/{id}/toggle", app.taskHandler.ToggleTask)
			r.Delete("/tasks/{id}", app.taskHandler.DeleteTask)

			r.Post("/tags", app.tagHandler.CreateTag)
			r.Get("/tags", app.tagHandler.ListTags)
			r.Delete("/tags/{id}", app.tagHandler.DeleteTag)

			r.Post("/chat", app.chatHandler.Chat)
		})
	})

	// Dapr sidecar endpoints: subscription discovery, topic deliveries,
	// bindings, job callbacks and service invocation targets.
	r.Get("/dapr/subscribe", app.eventHandler.Subscriptions)
	r.Post("/events/task-events", app.eventHandler.HandleTaskEvents)
	r.Post("/events/reminders", app.eventHandler.HandleReminderEvents)
	r.Post("/reminder-cron", app.eventHandler.ReminderCron)
	r.Post("/jobs/callback", app.eventHandler.JobsCallback)
	r.Post("/send-notification", app.eventHandler.SendNotification)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
