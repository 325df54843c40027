package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donelist/donelist-api/internal/agent"
	"github.com/donelist/donelist-api/internal/domain"
	"github.com/donelist/donelist-api/internal/mocks"
	"github.com/donelist/donelist-api/internal/store"
)

// scriptedChatProvider answers every turn with a fixed text; it records the
// history it was shown.
type scriptedChatProvider struct {
	text       string
	err        error
	gotHistory []agent.Message
	gotMessage string
}

func (p *scriptedChatProvider) Complete(_ context.Context, history []agent.Message, userMessage string) (*agent.Completion, error) {
	p.gotHistory = history
	p.gotMessage = userMessage
	if p.err != nil {
		return nil, p.err
	}
	return &agent.Completion{Text: p.text}, nil
}

func (p *scriptedChatProvider) CompleteWithResults(_ context.Context, _ []agent.Message, _ string, _ []agent.ToolResult) (string, error) {
	return p.text, nil
}

type chatFixture struct {
	svc           *ChatService
	conversations *mocks.ConversationStore
	provider      *scriptedChatProvider
	tasks         *TaskService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	conversations := mocks.NewConversationStore()
	provider := &scriptedChatProvider{text: "Sure thing."}
	tasks := NewTaskService(nil, mocks.NewTaskStore(), mocks.NewEventRecorder(), nil, discardLogger())
	return &chatFixture{
		svc:           NewChatService(conversations, provider, tasks, discardLogger()),
		conversations: conversations,
		provider:      provider,
		tasks:         tasks,
	}
}

func TestChatStartsNewConversation(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	result, err := f.svc.Chat(context.Background(), "user-123", nil, "hello")
	require.NoError(t, err)

	assert.NotZero(t, result.ConversationID)
	assert.Equal(t, "Sure thing.", result.Reply)
	assert.Empty(t, result.ToolCalls)

	// Both turns are persisted in order.
	msgs, err := f.conversations.ListMessages(context.Background(), result.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Sure thing.", msgs[1].Content)
}

func TestChatContinuesConversationWithHistory(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	first, err := f.svc.Chat(context.Background(), "user-123", nil, "add a task to buy milk")
	require.NoError(t, err)

	_, err = f.svc.Chat(context.Background(), "user-123", &first.ConversationID, "what did I just ask?")
	require.NoError(t, err)

	// The second turn replayed the first exchange as history, and the new
	// message was not duplicated into it.
	require.Len(t, f.provider.gotHistory, 2)
	assert.Equal(t, agent.RoleUser, f.provider.gotHistory[0].Role)
	assert.Equal(t, "add a task to buy milk", f.provider.gotHistory[0].Content)
	assert.Equal(t, agent.RoleAssistant, f.provider.gotHistory[1].Role)
	assert.Equal(t, "what did I just ask?", f.provider.gotMessage)

	msgs, err := f.conversations.ListMessages(context.Background(), first.ConversationID)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestChatUnknownConversation(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)
	missing := int64(99)

	_, err := f.svc.Chat(context.Background(), "user-123", &missing, "hello?")
	assert.ErrorIs(t, err, store.ErrConversationNotFound)
}

func TestChatForeignConversation(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	theirs, err := f.svc.Chat(context.Background(), "someone-else", nil, "my private chat")
	require.NoError(t, err)

	_, err = f.svc.Chat(context.Background(), "user-123", &theirs.ConversationID, "let me in")
	assert.ErrorIs(t, err, store.ErrConversationNotFound)
}

func TestChatEmptyMessage(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	_, err := f.svc.Chat(context.Background(), "user-123", nil, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChatProviderFailureKeepsUserMessage(t *testing.T) {
	t.Parallel()

	f := newChatFixture(t)

	first, err := f.svc.Chat(context.Background(), "user-123", nil, "warm up")
	require.NoError(t, err)

	f.provider.err = errors.New("model unavailable")
	_, err = f.svc.Chat(context.Background(), "user-123", &first.ConversationID, "this will fail")
	require.ErrorIs(t, err, agent.ErrProviderFailure)

	// The failed turn's user message is persisted, the reply is not.
	msgs, err := f.conversations.ListMessages(context.Background(), first.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "this will fail", msgs[2].Content)
	assert.Equal(t, domain.RoleUser, msgs[2].Role)
}
