package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/donelist/donelist-api/internal/agent"
	"github.com/donelist/donelist-api/internal/api/shared"
	"github.com/donelist/donelist-api/internal/platform/logger"
	"github.com/donelist/donelist-api/internal/service"
)

// ChatHandler handles conversational agent HTTP requests.
type ChatHandler struct {
	chatService *service.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService, logger *slog.Logger) *ChatHandler {
	if chatService == nil {
		panic("chatService cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for ChatHandler")
	}

	return &ChatHandler{
		chatService: chatService,
		logger:      logger.With(slog.String("component", "chat_handler")),
	}
}

// Chat handles POST /chat requests: one conversational turn through the
// agent loop. The turn is stateless server-side; history is replayed from
// the conversation store on every request.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	var req ChatRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.chatService.Chat(r.Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		// A provider outage is the one failure the user can do nothing
		// about; surface it as unavailability rather than a server bug.
		if errors.Is(err, agent.ErrProviderFailure) {
			shared.RespondWithErrorAndLog(w, r,
				http.StatusServiceUnavailable, "Assistant is temporarily unavailable", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("chat turn completed",
		slog.Int64("conversation_id", result.ConversationID),
		slog.String("user_id", userID),
		slog.Int("tool_calls", len(result.ToolCalls)))

	toolCalls := result.ToolCalls
	if toolCalls == nil {
		toolCalls = []string{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ChatResponse{
		ConversationID: result.ConversationID,
		Response:       result.Reply,
		ToolCalls:      toolCalls,
	})
}
