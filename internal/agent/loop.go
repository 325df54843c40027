package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/donelist/donelist-api/internal/platform/logger"
)

// Reply is the outcome of one agent turn.
type Reply struct {
	// Text is the assistant's final natural-language response.
	Text string

	// ToolNames lists the tools executed during the turn, in call order.
	// Empty when the model answered directly.
	ToolNames []string
}

// Loop drives a single conversational turn against a CompletionProvider,
// executing requested tools through a ToolExecutor.
type Loop struct {
	provider CompletionProvider
	executor ToolExecutor
	logger   *slog.Logger
}

// NewLoop creates an agent loop. If logger is nil, a default logger will be
// used.
func NewLoop(provider CompletionProvider, executor ToolExecutor, logger *slog.Logger) *Loop {
	if provider == nil {
		panic("provider cannot be nil")
	}
	if executor == nil {
		panic("executor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Loop{
		provider: provider,
		executor: executor,
		logger:   logger.With(slog.String("component", "agent_loop")),
	}
}

// Reply processes one user message against the supplied history and returns
// the assistant's reply. A provider failure on either phase aborts the turn;
// tool failures do not, they are reported back to the model inside the tool
// results.
func (l *Loop) Reply(ctx context.Context, history []Message, userMessage string) (*Reply, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	completion, err := l.provider.Complete(ctx, history, userMessage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	if len(completion.ToolCalls) == 0 {
		return &Reply{Text: completion.Text}, nil
	}

	results := make([]ToolResult, 0, len(completion.ToolCalls))
	toolNames := make([]string, 0, len(completion.ToolCalls))

	for _, call := range completion.ToolCalls {
		args := decodeArgs(ctx, log, call)
		result := l.executor.Execute(ctx, call.Name, args)

		results = append(results, ToolResult{Call: call, Result: result})
		toolNames = append(toolNames, call.Name)

		log.Debug("tool executed",
			slog.String("tool", call.Name),
			slog.Bool("errored", result["error"] != nil))
	}

	text, err := l.provider.CompleteWithResults(ctx, history, userMessage, results)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	return &Reply{Text: text, ToolNames: toolNames}, nil
}

// decodeArgs unmarshals a tool call's argument object. Malformed arguments
// degrade to an empty map so the tool still runs and can report what is
// missing.
func decodeArgs(ctx context.Context, log *slog.Logger, call ToolCall) map[string]interface{} {
	if len(call.Args) == 0 {
		return map[string]interface{}{}
	}

	args := map[string]interface{}{}
	if err := json.Unmarshal(call.Args, &args); err != nil {
		log.WarnContext(ctx, "malformed tool arguments, executing with none",
			slog.String("tool", call.Name),
			slog.String("error", err.Error()))
		return map[string]interface{}{}
	}

	return args
}
