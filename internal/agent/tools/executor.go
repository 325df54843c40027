package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/donelist/donelist-api/internal/agent"
	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// TaskManager is the slice of the task service the tools need. Every method
// is owner-scoped; a missing or foreign task surfaces as store.ErrNotFound.
type TaskManager interface {
	CreateTask(ctx context.Context, userID, title, description string, priority domain.Priority) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string, pendingOnly bool) ([]*domain.Task, error)
	CompleteTask(ctx context.Context, userID string, id int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID string, id int64) error
	RenameTask(ctx context.Context, userID string, id int64, title string) (*domain.Task, error)
}

// Executor runs catalogue tools for a single owner.
type Executor struct {
	tasks  TaskManager
	userID string
	logger *slog.Logger
}

// NewExecutor creates an executor bound to the given owner. If logger is
// nil, a default logger will be used.
func NewExecutor(tasks TaskManager, userID string, logger *slog.Logger) *Executor {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		tasks:  tasks,
		userID: userID,
		logger: logger.With(slog.String("component", "tool_executor")),
	}
}

// Ensure Executor implements agent.ToolExecutor
var _ agent.ToolExecutor = (*Executor)(nil)

// Execute implements agent.ToolExecutor. The result map either carries the
// tool's payload or an "error" key describing what went wrong.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]interface{}) map[string]interface{} {
	log := logger.FromContextOrDefault(ctx, e.logger)

	log.Debug("executing tool",
		slog.String("tool", name),
		slog.String("user_id", e.userID))

	switch name {
	case ToolAddTask:
		return e.addTask(ctx, args)
	case ToolListTasks:
		return e.listTasks(ctx, args)
	case ToolCompleteTask:
		return e.completeTask(ctx, args)
	case ToolDeleteTask:
		return e.deleteTask(ctx, args)
	case ToolUpdateTask:
		return e.updateTask(ctx, args)
	default:
		return errResult(fmt.Sprintf("unknown tool: %s", name))
	}
}

func (e *Executor) addTask(ctx context.Context, args map[string]interface{}) map[string]interface{} {
	title := stringArg(args, "title")
	if title == "" {
		return errResult("title is required")
	}

	priority := domain.PriorityMedium
	if p := stringArg(args, "priority"); p != "" {
		priority = domain.Priority(p)
		if !priority.IsValid() {
			return errResult(fmt.Sprintf("invalid priority: %s", p))
		}
	}

	task, err := e.tasks.CreateTask(ctx, e.userID, title, stringArg(args, "description"), priority)
	if err != nil {
		return errResult(err.Error())
	}

	return map[string]interface{}{
		"success":  true,
		"task_id":  task.ID,
		"title":    task.Title,
		"priority": string(task.Priority),
	}
}

func (e *Executor) listTasks(ctx context.Context, args map[string]interface{}) map[string]interface{} {
	status := stringArg(args, "status")
	if status == "" {
		status = "all"
	}
	if status != "all" && status != "pending" {
		return errResult(fmt.Sprintf("invalid status: %s", status))
	}

	tasks, err := e.tasks.ListTasks(ctx, e.userID, status == "pending")
	if err != nil {
		return errResult(err.Error())
	}

	list := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, map[string]interface{}{
			"id":        task.ID,
			"title":     task.Title,
			"completed": task.Completed,
			"priority":  string(task.Priority),
		})
	}

	return map[string]interface{}{
		"tasks":  list,
		"count":  len(list),
		"status": status,
	}
}

func (e *Executor) completeTask(ctx context.Context, args map[string]interface{}) map[string]interface{} {
	id, ok := intArg(args, "task_id")
	if !ok {
		return errResult("task_id is required")
	}

	task, err := e.tasks.CompleteTask(ctx, e.userID, id)
	if err != nil {
		return taskErrResult(err, id)
	}

	return map[string]interface{}{
		"success":   true,
		"task_id":   task.ID,
		"title":     task.Title,
		"completed": task.Completed,
	}
}

func (e *Executor) deleteTask(ctx context.Context, args map[string]interface{}) map[string]interface{} {
	id, ok := intArg(args, "task_id")
	if !ok {
		return errResult("task_id is required")
	}

	if err := e.tasks.DeleteTask(ctx, e.userID, id); err != nil {
		return taskErrResult(err, id)
	}

	return map[string]interface{}{
		"success": true,
		"task_id": id,
	}
}

func (e *Executor) updateTask(ctx context.Context, args map[string]interface{}) map[string]interface{} {
	id, ok := intArg(args, "task_id")
	if !ok {
		return errResult("task_id is required")
	}

	title := stringArg(args, "title")
	if title == "" {
		return errResult("title is required")
	}

	task, err := e.tasks.RenameTask(ctx, e.userID, id, title)
	if err != nil {
		return taskErrResult(err, id)
	}

	return map[string]interface{}{
		"success": true,
		"task_id": task.ID,
		"title":   task.Title,
	}
}

func errResult(msg string) map[string]interface{} {
	return map[string]interface{}{"error": msg}
}

func taskErrResult(err error, id int64) map[string]interface{} {
	if errors.Is(err, store.ErrNotFound) {
		return errResult(fmt.Sprintf("task %d not found", id))
	}
	return errResult(err.Error())
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg reads a numeric argument. JSON decoding and model providers both
// hand numbers over as float64, and models occasionally quote them.
func intArg(args map[string]interface{}, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
