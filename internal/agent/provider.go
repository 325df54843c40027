package agent

import (
	"context"
	"encoding/json"
	"errors"
)

// Provider-level errors.
var (
	// ErrProviderFailure is returned when the model provider cannot produce a
	// completion. The agent loop treats it as fatal for the request.
	ErrProviderFailure = errors.New("completion provider failure")

	// ErrEmptyCompletion is returned when the provider produced a response
	// with no usable content.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Message is one prior turn of the conversation, as replayed to the model.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Conversation roles understood by providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall is a single function invocation requested by the model. Args is
// the raw JSON argument object; malformed arguments are the executor's
// problem, not the provider's.
type ToolCall struct {
	Name string
	Args json.RawMessage
}

// ToolResult pairs a requested call with the result of executing it, for the
// second model call.
type ToolResult struct {
	Call   ToolCall
	Result map[string]interface{}
}

// Completion is the provider's answer to the first call of a turn: either
// final text, or a list of tool calls to execute before answering.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// CompletionProvider abstracts the model behind the agent loop.
//
// Complete makes the opening call of a turn with the tool catalogue offered.
// CompleteWithResults makes the follow-up call after tool execution; the
// provider reconstructs the model's tool-call turn from the results so the
// caller does not carry provider-specific state between the two phases.
type CompletionProvider interface {
	Complete(ctx context.Context, history []Message, userMessage string) (*Completion, error)
	CompleteWithResults(ctx context.Context, history []Message, userMessage string, results []ToolResult) (string, error)
}

// ToolExecutor runs a named tool with decoded arguments and returns its
// result. Failures, including unknown tool names, are reported inside the
// result map so they flow back to the model rather than aborting the turn.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) map[string]interface{}
}
