package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
)

// TaskSortField names a column tasks may be sorted by.
type TaskSortField string

// Recognized sort fields. Anything else falls back to creation time.
const (
	TaskSortCreatedAt TaskSortField = "created_at"
	TaskSortUpdatedAt TaskSortField = "updated_at"
	TaskSortDueDate   TaskSortField = "due_date"
	TaskSortPriority  TaskSortField = "priority"
	TaskSortTitle     TaskSortField = "title"
)

// TaskFilter narrows and orders a task listing. The zero value lists every
// task of the owner, newest first.
type TaskFilter struct {
	// Completed filters by completion state when non-nil.
	Completed *bool

	// Priority filters by priority when non-empty.
	Priority domain.Priority

	// Search matches title or description case-insensitively when non-empty.
	Search string

	// TagID restricts to tasks linked to the tag when non-zero.
	TagID int64

	// SortBy orders the result; defaults to TaskSortCreatedAt.
	SortBy TaskSortField

	// SortAsc flips the default newest-first ordering.
	SortAsc bool

	// Offset and Limit page through the result. A zero Limit applies the
	// implementation default.
	Offset int
	Limit  int
}

// TaskStats summarizes an owner's tasks.
type TaskStats struct {
	Total    int `json:"total"`
	Complete int `json:"complete"`
	Pending  int `json:"pending"`
}

// TaskStore defines the interface for task data persistence. Every method
// that touches an existing task takes the owner identity and reports a task
// of another owner as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task and links it to the given tags, assigning the
	// task's ID. Tag linking and task insertion are atomic; run inside a
	// transaction via WithTx when combining with other writes.
	Create(ctx context.Context, task *domain.Task, tagIDs []int64) error

	// GetByID retrieves a task (with its tags) by ID, scoped to the owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner.
	GetByID(ctx context.Context, id int64, userID string) (*domain.Task, error)

	// List retrieves the owner's tasks matching the filter.
	List(ctx context.Context, userID string, filter TaskFilter) ([]*domain.Task, error)

	// Update persists the task's mutable fields. When tagIDs is non-nil the
	// task's tag links are replaced wholesale. Returns ErrTaskNotFound if the
	// task does not exist for the owner.
	Update(ctx context.Context, task *domain.Task, tagIDs []int64) error

	// Delete removes the owner's task and its tag links.
	// Returns ErrTaskNotFound if the task does not exist for the owner.
	Delete(ctx context.Context, id int64, userID string) error

	// Stats returns total/complete/pending counts for the owner.
	Stats(ctx context.Context, userID string) (*TaskStats, error)

	// DueReminders retrieves tasks of all owners whose reminder_at is set,
	// has passed, and which are not completed. Used by the reminder poller.
	DueReminders(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// ClearReminder nulls a task's reminder_at. Unlike the owner-scoped
	// methods it is keyed by task ID alone because the poller acts across
	// owners. Clearing an already-clear reminder is a no-op.
	ClearReminder(ctx context.Context, id int64) error

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag, assigning its ID.
	// Returns ErrDuplicate if a tag with the same name exists.
	Create(ctx context.Context, tag *domain.Tag) error

	// List retrieves all tags ordered by name.
	List(ctx context.Context) ([]*domain.Tag, error)

	// Delete removes a tag and its task links.
	// Returns ErrTagNotFound if the tag does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a TagStore bound to the given transaction.
	WithTx(tx *sql.Tx) TagStore
}
