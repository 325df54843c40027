package api

import (
	"time"

	"github.com/donelist/donelist-api/internal/domain"
)

// Common request/response structures

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"                 validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" validate:"max=1000"`
	Priority    string     `json:"priority,omitempty"    validate:"omitempty,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Recurrence  string     `json:"recurrence,omitempty"  validate:"omitempty,oneof=none daily weekly monthly"`
	ReminderAt  *time.Time `json:"reminder_at,omitempty"`
	TagIDs      []int64    `json:"tag_ids,omitempty"`
}

// UpdateTaskRequest defines the payload for a partial task update. Absent
// fields leave the task untouched; the clear flags null out the optional
// timestamps.
type UpdateTaskRequest struct {
	Title         *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Completed     *bool      `json:"completed,omitempty"`
	Priority      *string    `json:"priority,omitempty"    validate:"omitempty,oneof=high medium low"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	ClearDueDate  bool       `json:"clear_due_date,omitempty"`
	Recurrence    *string    `json:"recurrence,omitempty"  validate:"omitempty,oneof=none daily weekly monthly"`
	ReminderAt    *time.Time `json:"reminder_at,omitempty"`
	ClearReminder bool       `json:"clear_reminder,omitempty"`
	TagIDs        []int64    `json:"tag_ids,omitempty"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	Priority    string        `json:"priority"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Recurrence  string        `json:"recurrence"`
	ReminderAt  *time.Time    `json:"reminder_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Tags        []TagResponse `json:"tags"`
}

// NewTaskResponse maps a domain task onto the response shape.
func NewTaskResponse(task *domain.Task) TaskResponse {
	tags := make([]TagResponse, 0, len(task.Tags))
	for _, tag := range task.Tags {
		tags = append(tags, TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color})
	}

	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		Recurrence:  string(task.Recurrence),
		ReminderAt:  task.ReminderAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Tags:        tags,
	}
}

// NewTaskListResponse maps a slice of domain tasks onto response shapes.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewTaskResponse(task))
	}
	return out
}

// CreateTagRequest defines the payload for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name"            validate:"required,min=1,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ChatRequest defines the payload for one conversational turn. A nil
// ConversationID starts a new conversation.
type ChatRequest struct {
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message" validate:"required,min=1,max=4000"`
}

// ChatResponse defines the response for one conversational turn.
type ChatResponse struct {
	ConversationID int64    `json:"conversation_id"`
	Response       string   `json:"response"`
	ToolCalls      []string `json:"tool_calls"`
}

// StatsResponse summarizes the authenticated owner's tasks.
type StatsResponse struct {
	Total    int `json:"total"`
	Complete int `json:"complete"`
	Pending  int `json:"pending"`
}
