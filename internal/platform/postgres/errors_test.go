package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donelist/donelist-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		sentinel error
	}{
		{
			name:     "nil error stays nil",
			input:    nil,
			sentinel: nil,
		},
		{
			name:     "sql.ErrNoRows maps to ErrNotFound",
			input:    sql.ErrNoRows,
			sentinel: store.ErrNotFound,
		},
		{
			name:     "unique violation maps to ErrDuplicate",
			input:    &pgconn.PgError{Code: uniqueViolationCode},
			sentinel: store.ErrDuplicate,
		},
		{
			name:     "foreign key violation maps to ErrInvalidEntity",
			input:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "task_tags_tag_id_fkey"},
			sentinel: store.ErrInvalidEntity,
		},
		{
			name:     "check violation maps to ErrInvalidEntity",
			input:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_priority_check"},
			sentinel: store.ErrInvalidEntity,
		},
		{
			name:     "not null violation maps to ErrInvalidEntity",
			input:    &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			sentinel: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tc.input)
			if tc.sentinel == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tc.sentinel)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	unknown := errors.New("connection refused")
	assert.Same(t, unknown, MapError(unknown))

	// Syntax errors and other pg failures keep their identity too.
	pgErr := &pgconn.PgError{Code: "42601"}
	assert.Same(t, error(pgErr), MapError(pgErr))
}

func TestMapErrorPreservesWrappedCause(t *testing.T) {
	t.Parallel()

	cause := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "tags_name_key"}
	wrapped := fmt.Errorf("creating tag: %w", cause)

	mapped := MapError(wrapped)
	assert.ErrorIs(t, mapped, store.ErrDuplicate)
	assert.Contains(t, mapped.Error(), "tags_name_key")
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(store.ErrNotFound))
	assert.True(t, IsNotFoundError(store.ErrTaskNotFound))
	assert.False(t, IsNotFoundError(errors.New("boom")))
	assert.False(t, IsNotFoundError(nil))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrTaskNotFound))
	})

	t.Run("zero rows returns the sentinel", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("zero rows without sentinel falls back to ErrNotFound", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result errors", func(t *testing.T) {
		t.Parallel()
		require.Error(t, CheckRowsAffected(nil, store.ErrTaskNotFound))
	})

	t.Run("rows affected failure propagates", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("driver does not support RowsAffected")
		err := CheckRowsAffected(fakeResult{err: boom}, store.ErrTaskNotFound)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})
}

func TestSortColumnWhitelist(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "due_date", sortColumn(store.TaskSortDueDate))
	assert.Equal(t, "title", sortColumn(store.TaskSortTitle))
	assert.Equal(t, "created_at", sortColumn(store.TaskSortCreatedAt))

	// Anything outside the whitelist falls back rather than reaching the SQL.
	assert.Equal(t, "created_at", sortColumn(store.TaskSortField("updated_at; DROP TABLE tasks")))
	assert.Equal(t, "created_at", sortColumn(store.TaskSortField("")))
}

func TestSortDirection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ASC", sortDirection(true))
	assert.Equal(t, "DESC", sortDirection(false))
}
