package domain

import (
	"errors"
	"time"
)

// Conversation and message validation errors
var (
	// ErrConversationUserIDEmpty is returned when a conversation's owner identity is empty.
	ErrConversationUserIDEmpty = errors.New("conversation user ID cannot be empty")

	// ErrMessageContentEmpty is returned when a message has no content.
	ErrMessageContentEmpty = errors.New("message content cannot be empty")

	// ErrInvalidMessageRole is returned when a message role is not recognized.
	ErrInvalidMessageRole = errors.New("invalid message role")
)

// MessageRole identifies who authored a message.
type MessageRole string

// Possible message roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// IsValid reports whether the role is one of the recognized values.
func (r MessageRole) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation is a chat session belonging to exactly one owner. The ordered
// message log under a conversation is the only state the agent reasons over;
// there is no other session memory.
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates a new Conversation for the given owner.
func NewConversation(userID string) (*Conversation, error) {
	if userID == "" {
		return nil, ErrConversationUserIDEmpty
	}

	now := time.Now().UTC()
	return &Conversation{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Message is a single chat message. Messages are immutable once written and
// strictly ordered by creation time within their conversation.
type Message struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversation_id"`
	UserID         string      `json:"user_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewMessage creates a new Message in the given conversation.
// Returns an error if validation fails.
func NewMessage(conversationID int64, userID string, role MessageRole, content string) (*Message, error) {
	msg := &Message{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the Message has valid data.
func (m *Message) Validate() error {
	if m.UserID == "" {
		return ErrConversationUserIDEmpty
	}

	if !m.Role.IsValid() {
		return ErrInvalidMessageRole
	}

	if m.Content == "" {
		return ErrMessageContentEmpty
	}

	return nil
}
