package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
)

// ConversationStore defines the interface for conversation and message
// persistence. Conversations are owner-scoped; messages are append-only and
// ordered by creation time, which is the ordering the agent loop depends on.
type ConversationStore interface {
	// Create saves a new conversation, assigning its ID.
	Create(ctx context.Context, conv *domain.Conversation) error

	// GetByID retrieves a conversation by ID, scoped to the owner.
	// Returns ErrConversationNotFound if it does not exist or belongs to a
	// different owner.
	GetByID(ctx context.Context, id int64, userID string) (*domain.Conversation, error)

	// Touch updates the conversation's updated_at timestamp.
	Touch(ctx context.Context, id int64, at time.Time) error

	// AppendMessage appends a message to its conversation, assigning its ID.
	// Messages are never updated or deleted afterwards.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages retrieves the full ordered message log of a conversation,
	// oldest first.
	ListMessages(ctx context.Context, conversationID int64) ([]*domain.Message, error)

	// WithTx returns a ConversationStore bound to the given transaction.
	WithTx(tx *sql.Tx) ConversationStore
}
