package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
)

// ChatHandler 代理聊天 API
type ChatHandler struct {
	chat   *usecase.ChatUseCase
	logger *zap.Logger
}

// NewChatHandler creates the chat bridge handler.
func NewChatHandler(chat *usecase.ChatUseCase, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger.With(zap.String("handler", "chat")),
	}
}

// Register 注册路由
func (h *ChatHandler) Register(r gin.IRouter) {
	r.POST("/agents/:id/chat", h.Chat)
}

// Chat POST /agents/:id/chat
// 请求: {"user_id": "...", "message": "...", "conversation_id": 1}
func (h *ChatHandler) Chat(c *gin.Context) {
	agentID, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	var req ChatRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.chat.Execute(c.Request.Context(), usecase.ChatCommand{
		AgentID:        agentID,
		UserID:         req.UserID,
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		ConversationID: result.ConversationID,
		Reply:          result.Reply,
		Timestamp:      result.Timestamp,
	})
}
