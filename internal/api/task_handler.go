package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/donelist/donelist-api/internal/api/shared"
	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/service"
	"github.com/donelist/donelist-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService *service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		panic("taskService cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
		Recurrence:  domain.Recurrence(req.Recurrence),
		ReminderAt:  req.ReminderAt,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", userID))

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// ListTasks handles GET /tasks requests, honoring the filter, sort and
// pagination query parameters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	filter, err := taskFilterFromQuery(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.List(r.Context(), userID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// UpdateTask handles PATCH /tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	in := service.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Completed:     req.Completed,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
		ReminderAt:    req.ReminderAt,
		ClearReminder: req.ClearReminder,
		TagIDs:        req.TagIDs,
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		in.Priority = &priority
	}
	if req.Recurrence != nil {
		recurrence := domain.Recurrence(*req.Recurrence)
		in.Recurrence = &recurrence
	}

	task, err := h.taskService.Update(r.Context(), userID, id, in)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", userID))

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// ToggleTask handles POST /tasks/{id}/toggle requests, flipping the
// completion flag.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.taskService.Toggle(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /tasks/stats requests.
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	stats, err := h.taskService.Stats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatsResponse{
		Total:    stats.Total,
		Complete: stats.Complete,
		Pending:  stats.Pending,
	})
}

// taskIDParam parses the {id} route parameter.
func taskIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// taskFilterFromQuery builds a store.TaskFilter from the list query
// parameters. Unknown sort fields fall through to the store default.
func taskFilterFromQuery(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	query := r.URL.Query()

	if raw := query.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errInvalidQueryParam("completed")
		}
		filter.Completed = &completed
	}

	filter.Priority = domain.Priority(query.Get("priority"))
	filter.Search = query.Get("search")

	if raw := query.Get("tag_id"); raw != "" {
		tagID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errInvalidQueryParam("tag_id")
		}
		filter.TagID = tagID
	}

	filter.SortBy = store.TaskSortField(query.Get("sort_by"))
	filter.SortAsc = query.Get("order") == "asc"

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errInvalidQueryParam("limit")
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errInvalidQueryParam("offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}

func errInvalidQueryParam(name string) error {
	return fmt.Errorf("Invalid query parameter: %s", name)
}
