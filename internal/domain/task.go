package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Task-specific validation errors
var (
	// ErrTaskUserIDEmpty is returned when a task's owner identity is empty.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTitleTooLong is returned when a task's title exceeds 200 characters.
	ErrTaskTitleTooLong = errors.New("task title cannot exceed 200 characters")

	// ErrTaskDescriptionTooLong is returned when a task's description exceeds 1000 characters.
	ErrTaskDescriptionTooLong = errors.New("task description cannot exceed 1000 characters")

	// ErrInvalidPriority is returned when a priority value is not recognized.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrInvalidRecurrence is returned when a recurrence value is not recognized.
	ErrInvalidRecurrence = errors.New("invalid task recurrence")
)

// Title and description length limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Priority represents how urgent a task is.
type Priority string

// Possible priority values.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether the priority is one of the recognized values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Recurrence governs automatic next-instance creation when a task is completed.
type Recurrence string

// Possible recurrence values.
const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// IsValid reports whether the recurrence is one of the recognized values.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// NextOccurrence computes the due date of the next instance of a recurring
// task completed at the given time. Monthly recurrence uses a fixed 30-day
// offset rather than tracking calendar months; that drift is the documented
// behavior of the recurrence contract, not an oversight.
// The second return value is false for RecurrenceNone and unknown values.
func (r Recurrence) NextOccurrence(from time.Time) (time.Time, bool) {
	switch r {
	case RecurrenceDaily:
		return from.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		return from.AddDate(0, 0, 7), true
	case RecurrenceMonthly:
		return from.AddDate(0, 0, 30), true
	}
	return time.Time{}, false
}

// Task represents a single todo item owned by exactly one user. Every read
// and write path is scoped by UserID; a task is never visible to a non-owner.
type Task struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Recurrence  Recurrence `json:"recurrence"`
	ReminderAt  *time.Time `json:"reminder_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tags        []Tag      `json:"tags,omitempty"`
}

// NewTask creates a new Task with the given owner and title and sensible
// defaults (medium priority, no recurrence). The ID is assigned by the store
// on creation. Returns an error if validation fails.
func NewTask(userID, title string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		UserID:     userID,
		Title:      title,
		Priority:   PriorityMedium,
		Recurrence: RecurrenceNone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == "" {
		return ErrTaskUserIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrTaskDescriptionTooLong
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if !t.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}

	return nil
}

// IsOwnedBy reports whether the task belongs to the given owner identity.
func (t *Task) IsOwnedBy(userID string) bool {
	return t.UserID == userID
}
