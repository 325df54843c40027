package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// defaultListLimit caps a task listing when the caller does not page.
const defaultListLimit = 100

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
// It returns a new TaskStore instance that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task and its tag links, assigning the task's ID.
// Returns validation errors from the domain Task if data is invalid.
// Returns store.ErrInvalidEntity if a linked tag does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task, tagIDs []int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID))
		return err
	}

	query := `
		INSERT INTO tasks (user_id, title, description, completed, priority, due_date, recurrence, reminder_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		nullableTime(task.DueDate),
		task.Recurrence,
		nullableTime(task.ReminderAt),
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID))
		return MapError(err)
	}

	if err := s.replaceTagLinks(ctx, task.ID, tagIDs); err != nil {
		log.Error("failed to link tags during task creation",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	tags, err := s.loadTags(ctx, task.ID)
	if err != nil {
		return err
	}
	task.Tags = tags

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", task.UserID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task (with its tags) by ID, scoped to the owner.
// Returns store.ErrTaskNotFound if the task does not exist or belongs to a
// different owner.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, completed, priority, due_date, recurrence, reminder_at, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			log.Debug("task not found",
				slog.Int64("task_id", id),
				slog.String("user_id", userID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	tags, err := s.loadTags(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Tags = tags

	return task, nil
}

// List implements store.TaskStore.List
// It retrieves the owner's tasks matching the filter, with their tags.
func (s *PostgresTaskStore) List(ctx context.Context, userID string, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, title, description, completed, priority, due_date, recurrence, reminder_at, created_at, updated_at
		FROM tasks
		WHERE user_id = $1`)
	args := []interface{}{userID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	if filter.Priority != "" {
		args = append(args, filter.Priority)
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&sb, " AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	if filter.TagID != 0 {
		args = append(args, filter.TagID)
		fmt.Fprintf(&sb, " AND id IN (SELECT task_id FROM task_tags WHERE tag_id = $%d)", len(args))
	}

	fmt.Fprintf(&sb, " ORDER BY %s %s", sortColumn(filter.SortBy), sortDirection(filter.SortAsc))

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	for _, task := range tasks {
		tags, err := s.loadTags(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// It persists the task's mutable fields; when tagIDs is non-nil the tag links
// are replaced wholesale. Returns store.ErrTaskNotFound if the task does not
// exist for the owner.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task, tagIDs []int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, priority = $4,
		    due_date = $5, recurrence = $6, reminder_at = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		nullableTime(task.DueDate),
		task.Recurrence,
		nullableTime(task.ReminderAt),
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	if tagIDs != nil {
		if err := s.clearTagLinks(ctx, task.ID); err != nil {
			return err
		}
		if err := s.replaceTagLinks(ctx, task.ID, tagIDs); err != nil {
			return err
		}
	}

	tags, err := s.loadTags(ctx, task.ID)
	if err != nil {
		return err
	}
	task.Tags = tags

	return nil
}

// Delete implements store.TaskStore.Delete
// It removes the owner's task; tag links go with it via ON DELETE CASCADE.
// Returns store.ErrTaskNotFound if the task does not exist for the owner.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64, userID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Stats implements store.TaskStore.Stats
func (s *PostgresTaskStore) Stats(ctx context.Context, userID string) (*store.TaskStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM tasks
		WHERE user_id = $1
	`

	var stats store.TaskStats
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&stats.Total, &stats.Complete)
	if err != nil {
		log.Error("failed to compute task stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}

	stats.Pending = stats.Total - stats.Complete
	return &stats, nil
}

// DueReminders implements store.TaskStore.DueReminders
// It retrieves tasks across all owners whose reminder time has passed and
// which are not completed, oldest reminder first.
func (s *PostgresTaskStore) DueReminders(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, completed, priority, due_date, recurrence, reminder_at, created_at, updated_at
		FROM tasks
		WHERE reminder_at IS NOT NULL AND reminder_at <= $1 AND NOT completed
		ORDER BY reminder_at
	`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		log.Error("failed to query due reminders",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// ClearReminder implements store.TaskStore.ClearReminder
// Clearing an already-clear reminder is a no-op.
func (s *PostgresTaskStore) ClearReminder(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE tasks SET reminder_at = NULL, updated_at = $1 WHERE id = $2`

	_, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to clear reminder",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	return nil
}

// replaceTagLinks inserts a link row per tag ID. Duplicate IDs in the input
// collapse through ON CONFLICT DO NOTHING.
func (s *PostgresTaskStore) replaceTagLinks(ctx context.Context, taskID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := `INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, tagID := range tagIDs {
		if _, err := s.db.ExecContext(ctx, query, taskID, tagID); err != nil {
			// Linking to a tag that does not exist trips the tag_id
			// foreign key.
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: id %d", store.ErrTagNotFound, tagID)
			}
			return MapError(err)
		}
	}

	return nil
}

func (s *PostgresTaskStore) clearTagLinks(ctx context.Context, taskID int64) error {
	query := `DELETE FROM task_tags WHERE task_id = $1`
	if _, err := s.db.ExecContext(ctx, query, taskID); err != nil {
		return MapError(err)
	}
	return nil
}

// loadTags retrieves the tags linked to a task, ordered by name.
func (s *PostgresTaskStore) loadTags(ctx context.Context, taskID int64) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.name, t.color
		FROM tags t
		JOIN task_tags tt ON tt.tag_id = t.id
		WHERE tt.task_id = $1
		ORDER BY t.name
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]domain.Tag, 0)
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task       domain.Task
		priority   string
		recurrence string
		dueDate    sql.NullTime
		reminderAt sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&priority,
		&dueDate,
		&recurrence,
		&reminderAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	task.Recurrence = domain.Recurrence(recurrence)
	if dueDate.Valid {
		t := dueDate.Time.UTC()
		task.DueDate = &t
	}
	if reminderAt.Valid {
		t := reminderAt.Time.UTC()
		task.ReminderAt = &t
	}

	return &task, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func sortColumn(field store.TaskSortField) string {
	switch field {
	case store.TaskSortUpdatedAt, store.TaskSortDueDate, store.TaskSortPriority, store.TaskSortTitle:
		return string(field)
	default:
		return string(store.TaskSortCreatedAt)
	}
}

func sortDirection(asc bool) string {
	if asc {
		return "ASC"
	}
	return "DESC"
}
