package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/store"
)

// ConversationStore is an in-memory store.ConversationStore.
type ConversationStore struct {
	mu            sync.Mutex
	conversations map[int64]*domain.Conversation
	messages      map[int64][]*domain.Message
	nextConvID    int64
	nextMsgID     int64

	// Err, when non-nil, is returned by every operation.
	Err error
}

// NewConversationStore creates an empty in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[int64]*domain.Conversation),
		messages:      make(map[int64][]*domain.Message),
		nextConvID:    1,
		nextMsgID:     1,
	}
}

var _ store.ConversationStore = (*ConversationStore)(nil)

func (s *ConversationStore) Create(_ context.Context, conv *domain.Conversation) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv.ID = s.nextConvID
	s.nextConvID++
	copied := *conv
	s.conversations[conv.ID] = &copied
	return nil
}

func (s *ConversationStore) GetByID(_ context.Context, id int64, userID string) (*domain.Conversation, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok || conv.UserID != userID {
		return nil, store.ErrConversationNotFound
	}
	copied := *conv
	return &copied, nil
}

func (s *ConversationStore) Touch(_ context.Context, id int64, at time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return store.ErrConversationNotFound
	}
	conv.UpdatedAt = at
	return nil
}

func (s *ConversationStore) AppendMessage(_ context.Context, msg *domain.Message) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.nextMsgID
	s.nextMsgID++
	copied := *msg
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], &copied)
	return nil
}

func (s *ConversationStore) ListMessages(_ context.Context, conversationID int64) ([]*domain.Message, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[conversationID]
	out := make([]*domain.Message, 0, len(msgs))
	for _, m := range msgs {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (s *ConversationStore) WithTx(*sql.Tx) store.ConversationStore { return s }
