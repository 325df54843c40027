package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the TagStore
// interface. If logger is nil, a default logger will be used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore interface
var _ store.TagStore = (*PostgresTagStore)(nil)

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TagStore.Create
// Returns store.ErrDuplicate if a tag with the same name already exists.
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during create",
			slog.String("error", err.Error()),
			slog.String("name", tag.Name))
		return err
	}

	query := `
		INSERT INTO tags (name, color)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, tag.Name, tag.Color).Scan(&tag.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate tag name", slog.String("name", tag.Name))
			return fmt.Errorf("%w: tag %q already exists", store.ErrDuplicate, tag.Name)
		}
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("name", tag.Name))
		return MapError(err)
	}

	return nil
}

// List implements store.TagStore.List
// It retrieves all tags ordered by name.
func (s *PostgresTagStore) List(ctx context.Context) ([]*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, name, color FROM tags ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*domain.Tag, 0)
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}

// Delete implements store.TagStore.Delete
// Task links go with the tag via ON DELETE CASCADE.
// Returns store.ErrTagNotFound if the tag does not exist.
func (s *PostgresTagStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tags WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete tag",
			slog.String("error", err.Error()),
			slog.Int64("tag_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTagNotFound)
}
