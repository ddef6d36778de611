package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

const (
	defaultConversationsPerPage = 20
	defaultMessagesPerPage      = 50
)

// ConversationHandler 会话与消息查询
type ConversationHandler struct {
	convs  *usecase.ConversationUseCase
	paging pagination.Config
	logger *zap.Logger
}

// NewConversationHandler creates the conversation handler.
func NewConversationHandler(convs *usecase.ConversationUseCase, paging pagination.Config, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		convs:  convs,
		paging: paging,
		logger: logger.With(zap.String("handler", "conversation")),
	}
}

// Register 注册路由
func (h *ConversationHandler) Register(r gin.IRouter) {
	r.GET("/conversations", h.List)
	r.GET("/conversations/:id", h.Get)
	r.PUT("/conversations/:id", h.Update)
	r.DELETE("/conversations/:id", h.Delete)
	r.GET("/conversations/:id/messages", h.Messages)
}

// List GET /conversations?agent_id=&user_id=
func (h *ConversationHandler) List(c *gin.Context) {
	var filter repository.ConversationFilter
	if v := c.Query("agent_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondError(c, h.logger, apperrors.NewInvalidInputError("agent_id must be an integer"))
			return
		}
		filter.AgentID = uint(id)
	}
	filter.UserID = c.Query("user_id")

	page, err := h.convs.List(c.Request.Context(), filter, pageRequest(c, defaultConversationsPerPage, h.paging))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	listResponse(c, "conversations", page, toConversationResponse)
}

// Get GET /conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	conv, err := h.convs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toConversationResponse(conv))
}

// Update PUT /conversations/:id, 仅支持修改 title
func (h *ConversationHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}
	fields, err := rawFields(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	title, err := optional[string](fields, "title")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	conv, err := h.convs.Rename(c.Request.Context(), id, title)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toConversationResponse(conv))
}

// Delete DELETE /conversations/:id
func (h *ConversationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	if err := h.convs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

// Messages GET /conversations/:id/messages, 按时间正序
func (h *ConversationHandler) Messages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	page, err := h.convs.Messages(c.Request.Context(), id, pageRequest(c, defaultMessagesPerPage, h.paging))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	listResponse(c, "messages", page, toMessageResponse)
}
