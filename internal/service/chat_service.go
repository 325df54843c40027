package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donelist/donelist-api/internal/agent"
	"github.com/donelist/donelist-api/internal/agent/tools"
	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/store"
)

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	ConversationID int64
	Reply          string
	ToolCalls      []string
}

// ChatService drives the stateless chat flow: load the conversation history,
// persist the user message, run the agent loop, persist the reply. The
// service holds nothing between requests; everything lives in the
// conversation store.
type ChatService struct {
	conversations store.ConversationStore
	provider      agent.CompletionProvider
	tasks         tools.TaskManager
	logger        *slog.Logger
}

// NewChatService creates a ChatService. If logger is nil, a default logger
// will be used.
func NewChatService(
	conversations store.ConversationStore,
	provider agent.CompletionProvider,
	tasks tools.TaskManager,
	logger *slog.Logger,
) *ChatService {
	if conversations == nil {
		panic("conversations cannot be nil")
	}
	if provider == nil {
		panic("provider cannot be nil")
	}
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ChatService{
		conversations: conversations,
		provider:      provider,
		tasks:         tasks,
		logger:        logger.With(slog.String("component", "chat_service")),
	}
}

// Chat processes one user message. A nil conversationID starts a new
// conversation; otherwise the conversation must exist and belong to the
// owner. The user message is persisted before the agent runs, so a provider
// failure loses the reply but never the user's words.
func (s *ChatService) Chat(ctx context.Context, userID string, conversationID *int64, message string) (*ChatResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if message == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrValidation)
	}

	conv, err := s.resolveConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	stored, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	history := make([]agent.Message, 0, len(stored))
	for _, msg := range stored {
		history = append(history, agent.Message{Role: string(msg.Role), Content: msg.Content})
	}

	userMsg, err := domain.NewMessage(conv.ID, userID, domain.RoleUser, message)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	executor := tools.NewExecutor(s.tasks, userID, s.logger)
	loop := agent.NewLoop(s.provider, executor, s.logger)

	reply, err := loop.Reply(ctx, history, message)
	if err != nil {
		log.Error("agent turn failed",
			slog.Int64("conversation_id", conv.ID),
			slog.String("error", err.Error()))
		return nil, err
	}

	assistantMsg, err := domain.NewMessage(conv.ID, userID, domain.RoleAssistant, reply.Text)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := s.conversations.Touch(ctx, conv.ID, time.Now().UTC()); err != nil {
		log.Warn("failed to touch conversation",
			slog.Int64("conversation_id", conv.ID),
			slog.String("error", err.Error()))
	}

	log.Info("chat turn completed",
		slog.Int64("conversation_id", conv.ID),
		slog.Int("tool_calls", len(reply.ToolNames)))

	return &ChatResult{
		ConversationID: conv.ID,
		Reply:          reply.Text,
		ToolCalls:      reply.ToolNames,
	}, nil
}

func (s *ChatService) resolveConversation(ctx context.Context, userID string, conversationID *int64) (*domain.Conversation, error) {
	if conversationID != nil {
		return s.conversations.GetByID(ctx, *conversationID, userID)
	}

	conv, err := domain.NewConversation(userID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}
