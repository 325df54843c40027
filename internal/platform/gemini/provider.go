package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/donelist/donelist-api/internal/agent"
	"github.com/donelist/donelist-api/internal/agent/tools"
	"github.com/donelist/donelist-api/internal/config"
)

// ErrInvalidConfig is returned when the provider configuration is unusable.
var ErrInvalidConfig = errors.New("invalid gemini configuration")

// systemPrompt frames the model as a todo assistant and pins down the tool
// choices the acceptance flows depend on.
const systemPrompt = `You are a helpful todo assistant. You help users manage their tasks through natural language.

Available commands you can understand:
- "Add a task to buy groceries" -> create a new task
- "Show my tasks" or "List all tasks" -> show all tasks
- "What's pending?" or "Show incomplete tasks" -> show only pending tasks
- "Mark task 3 as done" or "Complete task 3" -> mark a task as complete
- "Delete task 5" or "Remove task 5" -> delete a task
- "Update task 2 to buy milk" -> change a task title

When the user asks "What's pending?" you MUST call list_tasks with status="pending".
When the user says "show my tasks" you MUST call list_tasks with status="all".

Always be friendly and confirm actions with the user.
Format task lists nicely with checkboxes: use a checked box for complete tasks and an unchecked one for pending tasks.`

// Provider implements agent.CompletionProvider using the Gemini API.
type Provider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewProvider creates a Gemini-backed completion provider.
//
// Parameters:
//   - ctx: Context for client initialization, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing the API key, model name and timeout
//
// Returns a properly initialized Provider or an error if initialization fails.
func NewProvider(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Provider{
		client:  client,
		model:   cfg.ModelName,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "gemini_provider")),
	}, nil
}

// Ensure Provider implements agent.CompletionProvider
var _ agent.CompletionProvider = (*Provider)(nil)

// Complete implements agent.CompletionProvider.Complete. It offers the tool
// catalogue to the model and returns either final text or the requested tool
// calls.
func (p *Provider) Complete(ctx context.Context, history []agent.Message, userMessage string) (*agent.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Tools: []*genai.Tool{
			{FunctionDeclarations: declarations()},
		},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		},
	}

	p.logger.DebugContext(ctx, "making completion call",
		slog.String("model", p.model),
		slog.Int("history_length", len(history)))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, conversationContents(history, userMessage), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	return parseCompletion(resp)
}

// CompleteWithResults implements agent.CompletionProvider.CompleteWithResults.
// It replays the model's tool-call turn, attaches the execution results and
// asks for the final answer. No tools are offered on this call.
func (p *Provider) CompleteWithResults(ctx context.Context, history []agent.Message, userMessage string, results []agent.ToolResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	contents := conversationContents(history, userMessage)
	contents = append(contents, toolCallTurn(results), toolResponseTurn(results))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	completion, err := parseCompletion(resp)
	if err != nil {
		return "", err
	}

	return completion.Text, nil
}

// conversationContents converts the stored history plus the new user message
// into the wire shape.
func conversationContents(history []agent.Message, userMessage string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == agent.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))
}

// toolCallTurn reconstructs the model turn that requested the tool calls.
func toolCallTurn(results []agent.ToolResult) *genai.Content {
	parts := make([]*genai.Part, 0, len(results))
	for _, r := range results {
		args := map[string]interface{}{}
		if len(r.Call.Args) > 0 {
			// Undecodable args were already degraded by the loop; mirror that.
			_ = json.Unmarshal(r.Call.Args, &args)
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{Name: r.Call.Name, Args: args},
		})
	}
	return &genai.Content{Role: string(genai.RoleModel), Parts: parts}
}

// toolResponseTurn carries the execution results back to the model.
func toolResponseTurn(results []agent.ToolResult) *genai.Content {
	parts := make([]*genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{Name: r.Call.Name, Response: r.Result},
		})
	}
	return &genai.Content{Role: string(genai.RoleUser), Parts: parts}
}

// parseCompletion extracts text and tool calls from a model response.
func parseCompletion(resp *genai.GenerateContentResponse) (*agent.Completion, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", agent.ErrEmptyCompletion)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: candidate without content", agent.ErrEmptyCompletion)
	}

	completion := &agent.Completion{}
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				args = []byte("{}")
			}
			completion.ToolCalls = append(completion.ToolCalls, agent.ToolCall{
				Name: part.FunctionCall.Name,
				Args: args,
			})
			continue
		}
		completion.Text += part.Text
	}

	if completion.Text == "" && len(completion.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: candidate with neither text nor tool calls", agent.ErrEmptyCompletion)
	}

	return completion, nil
}

// declarations translates the tool catalogue into Gemini function
// declarations.
func declarations() []*genai.FunctionDeclaration {
	defs := tools.Catalogue()
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		properties := make(map[string]*genai.Schema, len(def.Properties))
		for name, prop := range def.Properties {
			properties[name] = &genai.Schema{
				Type:        schemaType(prop.Type),
				Description: prop.Description,
				Enum:        prop.Enum,
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   def.Required,
			},
		})
	}
	return decls
}

func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
