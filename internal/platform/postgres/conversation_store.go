package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// PostgresConversationStore implements the store.ConversationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresConversationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresConversationStore creates a new PostgreSQL implementation of the
// ConversationStore interface. If logger is nil, a default logger will be used.
func NewPostgresConversationStore(db store.DBTX, logger *slog.Logger) *PostgresConversationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresConversationStore{
		db:     db,
		logger: logger.With(slog.String("component", "conversation_store")),
	}
}

// Ensure PostgresConversationStore implements store.ConversationStore interface
var _ store.ConversationStore = (*PostgresConversationStore)(nil)

// WithTx implements store.ConversationStore.WithTx
func (s *PostgresConversationStore) WithTx(tx *sql.Tx) store.ConversationStore {
	return &PostgresConversationStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ConversationStore.Create
func (s *PostgresConversationStore) Create(ctx context.Context, conv *domain.Conversation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO conversations (user_id, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, conv.UserID, conv.CreatedAt, conv.UpdatedAt).
		Scan(&conv.ID)
	if err != nil {
		log.Error("failed to create conversation",
			slog.String("error", err.Error()),
			slog.String("user_id", conv.UserID))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ConversationStore.GetByID
// Returns store.ErrConversationNotFound if the conversation does not exist or
// belongs to a different owner.
func (s *PostgresConversationStore) GetByID(ctx context.Context, id int64, userID string) (*domain.Conversation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND user_id = $2
	`

	var conv domain.Conversation
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			log.Debug("conversation not found",
				slog.Int64("conversation_id", id),
				slog.String("user_id", userID))
			return nil, store.ErrConversationNotFound
		}
		log.Error("failed to get conversation",
			slog.String("error", err.Error()),
			slog.Int64("conversation_id", id))
		return nil, MapError(err)
	}

	return &conv, nil
}

// Touch implements store.ConversationStore.Touch
func (s *PostgresConversationStore) Touch(ctx context.Context, id int64, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE conversations SET updated_at = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, at, id)
	if err != nil {
		log.Error("failed to touch conversation",
			slog.String("error", err.Error()),
			slog.Int64("conversation_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrConversationNotFound)
}

// AppendMessage implements store.ConversationStore.AppendMessage
// Returns store.ErrInvalidEntity if the conversation does not exist.
func (s *PostgresConversationStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		log.Warn("message validation failed during append",
			slog.String("error", err.Error()),
			slog.Int64("conversation_id", msg.ConversationID))
		return err
	}

	query := `
		INSERT INTO messages (conversation_id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		msg.ConversationID,
		msg.UserID,
		msg.Role,
		msg.Content,
		msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		log.Error("failed to append message",
			slog.String("error", err.Error()),
			slog.Int64("conversation_id", msg.ConversationID))
		return MapError(err)
	}

	return nil
}

// ListMessages implements store.ConversationStore.ListMessages
// Messages come back oldest first, the order the agent consumes them in.
func (s *PostgresConversationStore) ListMessages(ctx context.Context, conversationID int64) ([]*domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		log.Error("failed to list messages",
			slog.String("error", err.Error()),
			slog.Int64("conversation_id", conversationID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var (
			msg  domain.Message
			role string
		)
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.UserID,
			&role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		msg.Role = domain.MessageRole(role)
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return messages, nil
}
