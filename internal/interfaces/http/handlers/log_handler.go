package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

const defaultLogsPerPage = 20

// LogHandler 代理日志查询
type LogHandler struct {
	logs   *usecase.LogUseCase
	paging pagination.Config
	logger *zap.Logger
}

// NewLogHandler creates the agent log handler.
func NewLogHandler(logs *usecase.LogUseCase, paging pagination.Config, logger *zap.Logger) *LogHandler {
	return &LogHandler{
		logs:   logs,
		paging: paging,
		logger: logger.With(zap.String("handler", "log")),
	}
}

// Register 注册路由
func (h *LogHandler) Register(r gin.IRouter) {
	r.GET("/agents/:id/logs", h.ListByAgent)
	r.GET("/logs", h.ListAll)
}

// ListByAgent GET /agents/:id/logs
func (h *LogHandler) ListByAgent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	page, err := h.logs.ListByAgent(c.Request.Context(), id, pageRequest(c, defaultLogsPerPage, h.paging))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	listResponse(c, "logs", page, toLogResponse)
}

// ListAll GET /logs
func (h *LogHandler) ListAll(c *gin.Context) {
	page, err := h.logs.ListAll(c.Request.Context(), pageRequest(c, defaultLogsPerPage, h.paging))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	listResponse(c, "logs", page, toLogResponse)
}
